package blinksights

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actionURL = "https://xdares.example.com/api/actions/dare/1"

func TestTrackAction(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actions/track", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		var body actionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, account.String(), body.Account)
		assert.Equal(t, actionURL, body.URL)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "key-1", 0).TrackAction(context.Background(), account, actionURL))
}

func TestTrackRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actions/render", r.URL.Path)
		var body struct {
			URL     string            `json:"url"`
			Payload map[string]string `json:"payload"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Dare not found", body.Payload["label"])
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k", 0).TrackRender(context.Background(), actionURL, map[string]string{"label": "Dare not found"})
	require.NoError(t, err)
}

func TestIdentityInstruction(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	program := solana.NewWallet().PublicKey()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actions/identity-instruction", r.URL.Path)
		json.NewEncoder(w).Encode(instructionResponse{
			ProgramID: program.String(),
			Keys:      []accountMeta{{Pubkey: account.String(), IsSigner: true, IsWritable: false}},
			Data:      base64.StdEncoding.EncodeToString([]byte("identity")),
		})
	}))
	defer srv.Close()

	ix, err := NewClient(srv.URL, "k", 0).IdentityInstruction(context.Background(), account, actionURL)
	require.NoError(t, err)
	assert.Equal(t, program, ix.ProgramID())
	require.Len(t, ix.Accounts(), 1)
	assert.True(t, ix.Accounts()[0].IsSigner)
	assert.False(t, ix.Accounts()[0].IsWritable)
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, "identity", string(data))
}

func TestIdentityInstructionErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer empty":
			w.Write([]byte(`{}`))
		case "Bearer bad":
			w.Write([]byte(`{"programId":"not-a-key","data":""}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("invalid api key"))
		}
	}))
	defer srv.Close()

	account := solana.NewWallet().PublicKey()
	_, err := NewClient(srv.URL, "empty", 0).IdentityInstruction(context.Background(), account, actionURL)
	assert.ErrorIs(t, err, ErrNoInstruction)

	_, err = NewClient(srv.URL, "bad", 0).IdentityInstruction(context.Background(), account, actionURL)
	assert.Error(t, err)

	_, err = NewClient(srv.URL, "wrong", 0).IdentityInstruction(context.Background(), account, actionURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
