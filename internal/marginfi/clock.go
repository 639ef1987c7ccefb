package marginfi

import (
	"encoding/binary"
	"fmt"

	"solana-liquidator/internal/domain"
)

// ClockSysvarAddress is the address of the Solana clock sysvar account.
var ClockSysvarAddress = domain.MustParseAddress("SysvarC1ock11111111111111111111111111111111")

// clockDataLen is the serialized clock size: five little-endian 64-bit
// fields in declaration order.
const clockDataLen = 40

// DecodeClock decodes the sysvar clock account data.
func DecodeClock(data []byte) (domain.Clock, error) {
	if len(data) < clockDataLen {
		return domain.Clock{}, fmt.Errorf("clock data too short: %d", len(data))
	}
	return domain.Clock{
		Slot:                binary.LittleEndian.Uint64(data[0:8]),
		EpochStartTimestamp: int64(binary.LittleEndian.Uint64(data[8:16])),
		Epoch:               binary.LittleEndian.Uint64(data[16:24]),
		LeaderScheduleEpoch: binary.LittleEndian.Uint64(data[24:32]),
		UnixTimestamp:       int64(binary.LittleEndian.Uint64(data[32:40])),
	}, nil
}

// EncodeClock serializes a clock to the sysvar wire form.
func EncodeClock(c domain.Clock) []byte {
	data := make([]byte, clockDataLen)
	binary.LittleEndian.PutUint64(data[0:8], c.Slot)
	binary.LittleEndian.PutUint64(data[8:16], uint64(c.EpochStartTimestamp))
	binary.LittleEndian.PutUint64(data[16:24], c.Epoch)
	binary.LittleEndian.PutUint64(data[24:32], c.LeaderScheduleEpoch)
	binary.LittleEndian.PutUint64(data[32:40], uint64(c.UnixTimestamp))
	return data
}
