package netutil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHttpUrl(t *testing.T) {
	for _, valid := range []string{
		"https://api.devnet.solana.com",
		"http://localhost:8899",
		"http://127.0.0.1:8899",
		"https://rpc.example.com/path?api-key=abc",
	} {
		assert.NoError(t, ValidateHttpUrl(valid, false), valid)
	}

	for _, invalid := range []string{
		"",
		"api.devnet.solana.com",
		"ftp://api.devnet.solana.com",
		"http://",
		"http://exa mple.com",
	} {
		assert.Error(t, ValidateHttpUrl(invalid, false), invalid)
	}

	assert.Error(t, ValidateHttpUrl("http://api.devnet.solana.com", true))
	assert.NoError(t, ValidateHttpUrl("https://api.devnet.solana.com", true))
}

func TestValidateDomainName(t *testing.T) {
	assert.NoError(t, ValidateDomainName("api.mainnet-beta.solana.com"))
	assert.Error(t, ValidateDomainName(""))
	assert.Error(t, ValidateDomainName(string(make([]byte, maxDomainNameSize+1))))
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/wrap", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-Ip", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.3")
	assert.Equal(t, "203.0.113.7", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))
}
