package jupiter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// QuoteRequest - Parameters of GET /quote
type QuoteRequest struct {
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	Amount      uint64 // in base units of InputMint
	SlippageBps int
}

// Quote keeps the raw quote body, which must be sent back unchanged to
// /swap-instructions, next to the parsed amounts.
type Quote struct {
	Raw                  json.RawMessage
	InAmount             uint64
	OutAmount            uint64
	OtherAmountThreshold uint64
}

type quoteAmounts struct {
	InAmount             string `json:"inAmount"`
	OutAmount            string `json:"outAmount"`
	OtherAmountThreshold string `json:"otherAmountThreshold"`
	Error                string `json:"error,omitempty"`
}

func parseQuote(body []byte) (*Quote, error) {
	var amounts quoteAmounts
	if err := json.Unmarshal(body, &amounts); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	if amounts.Error != "" {
		return nil, &APIError{Endpoint: "quote", Message: amounts.Error}
	}
	q := &Quote{Raw: json.RawMessage(body)}
	var err error
	if q.InAmount, err = parseAmount("inAmount", amounts.InAmount); err != nil {
		return nil, err
	}
	if q.OutAmount, err = parseAmount("outAmount", amounts.OutAmount); err != nil {
		return nil, err
	}
	if q.OtherAmountThreshold, err = parseAmount("otherAmountThreshold", amounts.OtherAmountThreshold); err != nil {
		return nil, err
	}
	return q, nil
}

func parseAmount(field, v string) (uint64, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q in quote: %w", field, v, err)
	}
	return n, nil
}

type swapInstructionsRequest struct {
	QuoteResponse           json.RawMessage `json:"quoteResponse"`
	UserPublicKey           string          `json:"userPublicKey"`
	DynamicComputeUnitLimit bool            `json:"dynamicComputeUnitLimit"`
}

// AccountMeta as serialized by the swap API
type AccountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// Instruction as serialized by the swap API (data is base64)
type Instruction struct {
	ProgramID string        `json:"programId"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      string        `json:"data"`
}

// SwapInstructions - Response of POST /swap-instructions
type SwapInstructions struct {
	ComputeBudgetInstructions []Instruction `json:"computeBudgetInstructions"`
	SetupInstructions         []Instruction `json:"setupInstructions"`
	SwapInstruction           *Instruction  `json:"swapInstruction"`
	CleanupInstruction        *Instruction  `json:"cleanupInstruction"`
	AddressLookupTableAddrs   []string      `json:"addressLookupTableAddresses"`
	Error                     string        `json:"error,omitempty"`
}

// ToSolana converts the serialized instruction into a solana-go instruction.
func (in Instruction) ToSolana() (solana.Instruction, error) {
	programID, err := solana.PublicKeyFromBase58(in.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}
	accounts := make(solana.AccountMetaSlice, 0, len(in.Accounts))
	for _, a := range in.Accounts {
		key, err := solana.PublicKeyFromBase58(a.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", a.Pubkey, err)
		}
		accounts = append(accounts, solana.NewAccountMeta(key, a.IsWritable, a.IsSigner))
	}
	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid instruction data: %w", err)
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// APIError is returned when the swap API answers with an error payload or a
// non-2xx status.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("jupiter %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("jupiter %s: %s", e.Endpoint, e.Message)
}
