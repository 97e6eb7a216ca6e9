package jupiter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sendMint = solana.MustPublicKeyFromBase58("SENDdRQtYMWaQrBroBrJ2Q53fgVuq95CV9UPGEvpCxa")

const quoteBody = `{"inputMint":"So11111111111111111111111111111111111111112","inAmount":"10000000","outputMint":"SENDdRQtYMWaQrBroBrJ2Q53fgVuq95CV9UPGEvpCxa","outAmount":"153456789","otherAmountThreshold":"151922221","slippageBps":100,"routePlan":[]}`

func TestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, solana.WrappedSol.String(), q.Get("inputMint"))
		assert.Equal(t, sendMint.String(), q.Get("outputMint"))
		assert.Equal(t, "10000000", q.Get("amount"))
		assert.Equal(t, "100", q.Get("slippageBps"))
		w.Write([]byte(quoteBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	quote, err := c.Quote(context.Background(), QuoteRequest{
		InputMint:   solana.WrappedSol,
		OutputMint:  sendMint,
		Amount:      10_000_000,
		SlippageBps: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), quote.InAmount)
	assert.Equal(t, uint64(153_456_789), quote.OutAmount)
	assert.Equal(t, uint64(151_922_221), quote.OtherAmountThreshold)
	assert.JSONEq(t, quoteBody, string(quote.Raw))
}

func TestQuoteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Could not find any route","errorCode":"COULD_NOT_FIND_ANY_ROUTE"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Quote(context.Background(), QuoteRequest{Amount: 1, SlippageBps: 100})
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Could not find any route", apiErr.Message)
}

func TestQuoteMalformedAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"inAmount":"1","outAmount":"x","otherAmountThreshold":"1"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Quote(context.Background(), QuoteRequest{Amount: 1, SlippageBps: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outAmount")
}

func TestSwapInstructions(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	program := solana.NewWallet().PublicKey()
	acct := solana.NewWallet().PublicKey()
	data := []byte{1, 2, 3, 4}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/swap-instructions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			QuoteResponse           json.RawMessage `json:"quoteResponse"`
			UserPublicKey           string          `json:"userPublicKey"`
			DynamicComputeUnitLimit bool            `json:"dynamicComputeUnitLimit"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.JSONEq(t, quoteBody, string(req.QuoteResponse))
		assert.Equal(t, user.String(), req.UserPublicKey)
		assert.True(t, req.DynamicComputeUnitLimit)

		json.NewEncoder(w).Encode(map[string]any{
			"swapInstruction": map[string]any{
				"programId": program.String(),
				"accounts": []map[string]any{
					{"pubkey": user.String(), "isSigner": true, "isWritable": true},
					{"pubkey": acct.String(), "isSigner": false, "isWritable": false},
				},
				"data": base64.StdEncoding.EncodeToString(data),
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	quote, err := parseQuote([]byte(quoteBody))
	require.NoError(t, err)

	out, err := c.SwapInstructions(context.Background(), quote, user)
	require.NoError(t, err)
	require.NotNil(t, out.SwapInstruction)

	ix, err := out.SwapInstruction.ToSolana()
	require.NoError(t, err)
	assert.Equal(t, program, ix.ProgramID())
	accounts := ix.Accounts()
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, acct, accounts[1].PublicKey)
	assert.False(t, accounts[1].IsWritable)
	got, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSwapInstructionsErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"insufficient liquidity"}`))
	}))
	defer srv.Close()

	quote, err := parseQuote([]byte(quoteBody))
	require.NoError(t, err)
	_, err = NewClient(srv.URL, 0).SwapInstructions(context.Background(), quote, solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get swap instructions: insufficient liquidity")
}

func TestInstructionToSolanaRejectsBadInput(t *testing.T) {
	_, err := Instruction{ProgramID: "nope"}.ToSolana()
	assert.Error(t, err)

	_, err = Instruction{
		ProgramID: solana.SystemProgramID.String(),
		Data:      "***",
	}.ToSolana()
	assert.Error(t, err)
}
