package splwrapper

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

const (
	WrapperStatsAccountSize = (8 + // discriminator
		8 + // total_wrapped
		8 + // total_unwrapped
		8 + // total_deposited
		8 + // total_fees_collected
		1) // bump
)

var WrapperStatsAccountDiscriminator = []byte{191, 29, 61, 226, 30, 48, 243, 211}

type WrapperStatsAccount struct {
	TotalWrapped       uint64
	TotalUnwrapped     uint64
	TotalDeposited     uint64
	TotalFeesCollected uint64
	Bump               uint8
}

func (obj *WrapperStatsAccount) Marshal() []byte {
	buf := new(bytes.Buffer)
	buf.Write(WrapperStatsAccountDiscriminator)

	encoder := bin.NewBorshEncoder(buf)
	encoder.WriteUint64(obj.TotalWrapped, binary.LittleEndian)
	encoder.WriteUint64(obj.TotalUnwrapped, binary.LittleEndian)
	encoder.WriteUint64(obj.TotalDeposited, binary.LittleEndian)
	encoder.WriteUint64(obj.TotalFeesCollected, binary.LittleEndian)
	encoder.WriteUint8(obj.Bump)

	return buf.Bytes()
}

func (obj *WrapperStatsAccount) Unmarshal(data []byte) error {
	if len(data) < WrapperStatsAccountSize {
		return ErrInvalidAccountData
	}
	if !bytes.Equal(data[:8], WrapperStatsAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	decoder := bin.NewBorshDecoder(data[8:])

	var err error
	for _, dst := range []*uint64{&obj.TotalWrapped, &obj.TotalUnwrapped, &obj.TotalDeposited, &obj.TotalFeesCollected} {
		if *dst, err = decoder.ReadUint64(binary.LittleEndian); err != nil {
			return ErrInvalidAccountData
		}
	}
	if obj.Bump, err = decoder.ReadUint8(); err != nil {
		return ErrInvalidAccountData
	}

	return nil
}

func (obj *WrapperStatsAccount) String() string {
	return fmt.Sprintf(
		"WrapperStats{total_wrapped=%d,total_unwrapped=%d,total_deposited=%d,total_fees_collected=%d,bump=%d}",
		obj.TotalWrapped,
		obj.TotalUnwrapped,
		obj.TotalDeposited,
		obj.TotalFeesCollected,
		obj.Bump,
	)
}
