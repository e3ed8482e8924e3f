package attestation

import (
	"fmt"

	"otsproof/pkg/wire"
)

// Chain selects which blockchain a block header attestation refers to.
type Chain uint8

const (
	Bitcoin Chain = iota + 1
	Litecoin
	Ethereum
)

func (c Chain) String() string {
	switch c {
	case Bitcoin:
		return "bitcoin"
	case Litecoin:
		return "litecoin"
	case Ethereum:
		return "ethereum"
	default:
		return fmt.Sprintf("chain(%d)", uint8(c))
	}
}

func (c Chain) tag() Tag {
	switch c {
	case Litecoin:
		return TagLitecoin
	case Ethereum:
		return TagEthereum
	default:
		return TagBitcoin
	}
}

func (c Chain) kind() Kind {
	switch c {
	case Litecoin:
		return KindLitecoin
	case Ethereum:
		return KindEthereum
	default:
		return KindBitcoin
	}
}

// BlockHeader claims that the proof's final digest is the merkle root of the
// block at Height on its chain. Checking that claim against chain data is
// the verifier's job; here only the height travels, as a varint payload.
type BlockHeader struct {
	chain  Chain
	height uint64
}

// NewBlockHeader returns a block header attestation for chain at height.
func NewBlockHeader(chain Chain, height uint64) (BlockHeader, error) {
	switch chain {
	case Bitcoin, Litecoin, Ethereum:
	default:
		return BlockHeader{}, fmt.Errorf("attestation: unsupported chain %s", chain)
	}
	if height > 1<<63-1 {
		return BlockHeader{}, invalid("block height %d out of range", height)
	}
	return BlockHeader{chain: chain, height: height}, nil
}

func blockHeaderDecoder(chain Chain) func(*wire.Reader) (Attestation, error) {
	return func(r *wire.Reader) (Attestation, error) {
		height, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		return BlockHeader{chain: chain, height: height}, nil
	}
}

// Chain returns the attested blockchain.
func (b BlockHeader) Chain() Chain { return b.chain }

// Height returns the attested block height.
func (b BlockHeader) Height() uint64 { return b.height }

func (b BlockHeader) Tag() Tag { return b.chain.tag() }

func (b BlockHeader) Kind() Kind { return b.chain.kind() }

func (b BlockHeader) EncodePayload(w *wire.Writer) {
	w.WriteVarint(b.height)
}

func (b BlockHeader) Compare(other Attestation) int { return Compare(b, other) }

func (b BlockHeader) String() string {
	switch b.chain {
	case Litecoin:
		return fmt.Sprintf("LitecoinBlockHeaderAttestation(%d)", b.height)
	case Ethereum:
		return fmt.Sprintf("EthereumBlockHeaderAttestation(%d)", b.height)
	default:
		return fmt.Sprintf("BitcoinBlockHeaderAttestation(%d)", b.height)
	}
}
