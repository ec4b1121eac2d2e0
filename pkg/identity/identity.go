// Package identity turns accounts into scannable presentations and scanned
// payloads back into accounts.
package identity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/url"
	"strings"

	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/storage"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

var (
	// ErrInvalidIdentifier is returned when a scanned payload holds no usable id.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrWrongRole is returned when a scanned account does not have the expected role.
	ErrWrongRole = errors.New("identifier belongs to an account with a different role")
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// Presentation is what gets printed on a badge or stall sign.
type Presentation struct {
	Kind        models.Role `json:"kind"`
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	URL         string      `json:"url"`
}

// Presenter builds presentations rooted at a public base URL.
type Presenter struct {
	BaseURL string
}

// NewPresenter creates a Presenter. Trailing slashes on baseURL are ignored.
func NewPresenter(baseURL string) *Presenter {
	return &Presenter{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Present returns the presentation of an account.
func (p *Presenter) Present(account *models.Account) Presentation {
	q := url.Values{"id": []string{account.ID}}
	return Presentation{
		Kind:        account.Role,
		ID:          account.ID,
		DisplayName: account.Name,
		URL:         fmt.Sprintf("%s/%s?%s", p.BaseURL, account.Role, q.Encode()),
	}
}

// QRCodePNG renders the presentation URL as a PNG QR code.
func QRCodePNG(p Presentation, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	qr, err := qrcode.New(p.URL, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(size)); err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseScanned extracts the account id from a scanned payload. Both a
// presentation URL and a bare id are accepted. The id is returned in its
// canonical lowercase hyphenated form.
func ParseScanned(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidIdentifier)
	}

	if id, err := uuid.Parse(raw); err == nil {
		return id.String(), nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", fmt.Errorf("%w: %q is neither a URL nor an id", ErrInvalidIdentifier, raw)
	}
	id, err := uuid.Parse(u.Query().Get("id"))
	if err != nil {
		return "", fmt.Errorf("%w: %q carries no valid id", ErrInvalidIdentifier, raw)
	}
	return id.String(), nil
}

// Resolver loads the account behind a scanned payload.
type Resolver struct {
	accounts storage.AccountReader
}

// NewResolver creates a Resolver.
func NewResolver(accounts storage.AccountReader) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve parses raw and returns its account. The role is checked against the
// stored record, never inferred from the payload.
func (r *Resolver) Resolve(ctx context.Context, raw string, want models.Role) (*models.Account, error) {
	id, err := ParseScanned(raw)
	if err != nil {
		return nil, err
	}

	account, err := r.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if want != "" && account.Role != want {
		return nil, fmt.Errorf("%w: %s is a %s, expected %s", ErrWrongRole, id, account.Role, want)
	}
	return account, nil
}
