package xfyun

import "fmt"

const (
	apiKeyLength    = 32
	apiSecretLength = 32
)

// Credentials identify an xfyun application. The zero value is not usable;
// construct with NewCredentials.
type Credentials struct {
	accountID string
	apiKey    string
	apiSecret string
}

// NewCredentials validates and returns credentials. The account id (APPID)
// must be 7 to 9 characters long, the API key and secret exactly 32 bytes.
func NewCredentials(accountID, apiKey, apiSecret string) (Credentials, error) {
	if n := len(accountID); n <= 6 || n >= 10 {
		return Credentials{}, NewError(ErrorStatusInvalidCredentials,
			fmt.Sprintf("account id must be 7-9 characters, got %d", n))
	}
	if len(apiKey) != apiKeyLength {
		return Credentials{}, NewError(ErrorStatusInvalidCredentials,
			fmt.Sprintf("api key must be %d bytes, got %d", apiKeyLength, len(apiKey)))
	}
	if len(apiSecret) != apiSecretLength {
		return Credentials{}, NewError(ErrorStatusInvalidCredentials,
			fmt.Sprintf("api secret must be %d bytes, got %d", apiSecretLength, len(apiSecret)))
	}
	return Credentials{
		accountID: accountID,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}, nil
}

func (c Credentials) AccountID() string {
	return c.accountID
}

func (c Credentials) valid() bool {
	return c.accountID != "" && c.apiKey != "" && c.apiSecret != ""
}
