package telegram

// Verifier checks a signed Mini App init-data payload and extracts the user
// identity from it. Verify must pass before Parse is trusted.
type Verifier interface {
	Verify(initData string) error
	Parse(initData string) (Identity, error)
}
