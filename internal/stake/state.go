// internal/stake/state.go
package stake

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Смещения полей StakeStateV2 в данных аккаунта.
const (
	stakerOffset = 12
	minStateSize = 124 // tag + Meta
)

// Kind: вариант StakeStateV2.
type Kind string

const (
	KindUninitialized Kind = "uninitialized"
	KindInitialized   Kind = "initialized"
	KindDelegated     Kind = "delegated"
	KindRewardsPool   Kind = "rewards_pool"
)

// Delegation: делегирование stake-аккаунта на валидатора.
type Delegation struct {
	Voter             solana.PublicKey `json:"voter" yaml:"voter"`
	Stake             uint64           `json:"stake" yaml:"stake"`
	ActivationEpoch   uint64           `json:"activationEpoch" yaml:"activationEpoch"`
	DeactivationEpoch uint64           `json:"deactivationEpoch" yaml:"deactivationEpoch"`
}

// Deactivating сообщает, запрошена ли деактивация.
func (d *Delegation) Deactivating() bool {
	return d.DeactivationEpoch != ^uint64(0)
}

// State: разобранные данные stake-аккаунта.
type State struct {
	Kind              Kind             `json:"kind" yaml:"kind"`
	RentExemptReserve uint64           `json:"rentExemptReserve,omitempty" yaml:"rentExemptReserve,omitempty"`
	Staker            solana.PublicKey `json:"staker,omitempty" yaml:"staker,omitempty"`
	Withdrawer        solana.PublicKey `json:"withdrawer,omitempty" yaml:"withdrawer,omitempty"`
	LockupEpoch       uint64           `json:"lockupEpoch,omitempty" yaml:"lockupEpoch,omitempty"`
	LockupTimestamp   int64            `json:"lockupTimestamp,omitempty" yaml:"lockupTimestamp,omitempty"`
	Custodian         solana.PublicKey `json:"custodian,omitempty" yaml:"custodian,omitempty"`
	Delegation        *Delegation      `json:"delegation,omitempty" yaml:"delegation,omitempty"`
}

// DecodeState разбирает данные аккаунта stake-программы (bincode, little-endian).
func DecodeState(data []byte) (*State, error) {
	dec := bin.NewBinDecoder(data)
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("read state tag: %w", err)
	}

	switch tag {
	case 0:
		return &State{Kind: KindUninitialized}, nil
	case 3:
		return &State{Kind: KindRewardsPool}, nil
	case 1, 2:
	default:
		return nil, fmt.Errorf("unknown stake state tag %d", tag)
	}

	if len(data) < minStateSize {
		return nil, fmt.Errorf("stake account data too short: %d bytes", len(data))
	}

	state := &State{Kind: KindInitialized}
	if state.RentExemptReserve, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("read rent exempt reserve: %w", err)
	}
	if state.Staker, err = readPublicKey(dec); err != nil {
		return nil, fmt.Errorf("read staker: %w", err)
	}
	if state.Withdrawer, err = readPublicKey(dec); err != nil {
		return nil, fmt.Errorf("read withdrawer: %w", err)
	}
	if state.LockupTimestamp, err = dec.ReadInt64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("read lockup timestamp: %w", err)
	}
	if state.LockupEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("read lockup epoch: %w", err)
	}
	if state.Custodian, err = readPublicKey(dec); err != nil {
		return nil, fmt.Errorf("read custodian: %w", err)
	}
	if tag == 1 {
		return state, nil
	}

	state.Kind = KindDelegated
	delegation := &Delegation{}
	if delegation.Voter, err = readPublicKey(dec); err != nil {
		return nil, fmt.Errorf("read voter: %w", err)
	}
	if delegation.Stake, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("read delegated stake: %w", err)
	}
	if delegation.ActivationEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("read activation epoch: %w", err)
	}
	if delegation.DeactivationEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("read deactivation epoch: %w", err)
	}
	state.Delegation = delegation
	return state, nil
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	raw, err := dec.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}
