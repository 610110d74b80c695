package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/cspl/engine"
	"github.com/invoix/wrapper-server/pkg/pointer"
)

var (
	errBodyTooLarge  = errors.New("request body too large")
	errMalformedBody = errors.New("request body must be a json object")
)

// newIntentBodyFromHttpContext reads the JSON object of an intent request.
// Values must be strings, though numbers are accepted verbatim for amounts
// sent by older clients.
func newIntentBodyFromHttpContext(r *http.Request, maxBodyBytes uint64) (map[string]string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, int64(maxBodyBytes)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(body)) > maxBodyBytes {
		return nil, errBodyTooLarge
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, errMalformedBody
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}

		var asString string
		if err := json.Unmarshal(value, &asString); err == nil {
			fields[key] = asString
			continue
		}

		var asNumber json.Number
		decoder := json.NewDecoder(bytes.NewReader(value))
		decoder.UseNumber()
		if err := decoder.Decode(&asNumber); err == nil {
			fields[key] = asNumber.String()
			continue
		}

		return nil, errors.Errorf("%s must be a string", key)
	}
	return fields, nil
}

type wrapperView struct {
	Program     string `json:"program"`
	AssetMint   string `json:"assetMint"`
	Config      string `json:"config"`
	ConfigBump  uint8  `json:"configBump"`
	Stats       string `json:"stats"`
	StatsBump   uint8  `json:"statsBump"`
	Vault       string `json:"vault"`
	VaultBump   uint8  `json:"vaultBump"`
	WrappedMint string `json:"wrappedMint"`
	WrappedBump uint8  `json:"wrappedMintBump"`
	Initialized bool   `json:"initialized"`

	State *wrapperStateView `json:"state,omitempty"`
}

type wrapperStateView struct {
	Authority    string  `json:"authority"`
	Auditor      *string `json:"auditor,omitempty"`
	WrapFeeBps   uint16  `json:"wrapFeeBps"`
	UnwrapFeeBps uint16  `json:"unwrapFeeBps"`
	IsPaused     bool    `json:"isPaused"`

	TotalWrapped       *string `json:"totalWrapped,omitempty"`
	TotalUnwrapped     *string `json:"totalUnwrapped,omitempty"`
	TotalDeposited     *string `json:"totalDeposited,omitempty"`
	TotalFeesCollected *string `json:"totalFeesCollected,omitempty"`

	VaultBalance *string `json:"vaultBalance,omitempty"`
	VaultFrozen  *bool   `json:"vaultFrozen,omitempty"`
}

func newWrapperView(state *engine.WrapperState) *wrapperView {
	accounts := state.Accounts

	view := &wrapperView{
		Program:     accounts.Program.PublicKey().ToBase58(),
		AssetMint:   accounts.OriginalMint.PublicKey().ToBase58(),
		Config:      accounts.Config.PublicKey().ToBase58(),
		ConfigBump:  accounts.ConfigBump,
		Stats:       accounts.Stats.PublicKey().ToBase58(),
		StatsBump:   accounts.StatsBump,
		Vault:       accounts.Vault.PublicKey().ToBase58(),
		VaultBump:   accounts.VaultBump,
		WrappedMint: accounts.WrappedMint.PublicKey().ToBase58(),
		WrappedBump: accounts.WrappedMintBump,
		Initialized: state.Config != nil,
	}

	if state.Config == nil {
		return view
	}

	view.State = &wrapperStateView{
		Authority:    base58String(state.Config.Authority),
		Auditor:      pointer.IfValid(len(state.Config.Auditor) > 0, base58String(state.Config.Auditor)),
		WrapFeeBps:   state.Config.WrapFeeBps,
		UnwrapFeeBps: state.Config.UnwrapFeeBps,
		IsPaused:     state.Config.IsPaused,
	}

	// u64 totals are rendered as strings to survive JSON number precision
	if state.Stats != nil {
		view.State.TotalWrapped = uint64String(state.Stats.TotalWrapped)
		view.State.TotalUnwrapped = uint64String(state.Stats.TotalUnwrapped)
		view.State.TotalDeposited = uint64String(state.Stats.TotalDeposited)
		view.State.TotalFeesCollected = uint64String(state.Stats.TotalFeesCollected)
	}

	if state.Vault != nil {
		view.State.VaultBalance = uint64String(state.Vault.Amount)
		view.State.VaultFrozen = pointer.To(state.Vault.IsFrozen())
	}

	return view
}

func base58String(value []byte) string {
	return base58.Encode(value)
}

func uint64String(value uint64) *string {
	return pointer.To(strconv.FormatUint(value, 10))
}
