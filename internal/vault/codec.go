package vault

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
)

// SwapArgs is the wire form of a swap request crossing the client/program
// boundary. Payload is the router's instruction data, carried verbatim and
// never interpreted here.
type SwapArgs struct {
	AmountIn     uint64
	MinAmountOut uint64 // advisory: forwarded with the quote, not enforced by default
	Payload      []byte
}

// Marshal encodes the args in borsh form.
func (a *SwapArgs) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSwapArgs decodes swap args from instruction data.
func UnmarshalSwapArgs(data []byte) (*SwapArgs, error) {
	var args SwapArgs
	if err := bin.NewBorshDecoder(data).Decode(&args); err != nil {
		return nil, err
	}
	return &args, nil
}
