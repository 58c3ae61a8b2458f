package transform

import (
	"context"
	"fmt"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
)

// CheckPasswordStrength enforces the minimum policy for encryption passwords:
// at least 8 characters with at least one digit and one non-alphanumeric
// character. It runs before any file I/O.
func CheckPasswordStrength(pw string) error {
	if len(pw) < 8 {
		return pdferr.Validationf("password too weak: must be at least 8 characters")
	}
	var digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			symbol = true
		}
	}
	if !digit {
		return pdferr.Validationf("password too weak: must contain at least one digit")
	}
	if !symbol {
		return pdferr.Validationf("password too weak: must contain at least one non-alphanumeric character")
	}
	return nil
}

// ProtectPDF encrypts the document with a user password and an optional
// distinct owner password (defaults to the user password).
func (l *Library) ProtectPDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}

	userPW := p.Str("password")
	if userPW == "" {
		return nil, pdferr.Validationf("a password is required")
	}
	if err := CheckPasswordStrength(userPW); err != nil {
		return nil, err
	}
	ownerPW := p.Str("owner_password")
	if ownerPW == "" {
		ownerPW = userPW
	}

	if _, err := l.v.PDF(in); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	conf := l.conf()
	conf.UserPW = userPW
	conf.OwnerPW = ownerPW
	if err := api.EncryptFile(in, out, conf); err != nil {
		return nil, pdferr.Operationf("encryption failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF protected successfully: %s", out), out), nil
}

// UnlockPDF decrypts a protected document. A wrong password is an operation
// error, not a crash. The encrypted input skips structural validation since
// it cannot be parsed without the password.
func (l *Library) UnlockPDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.PDFShallow(in); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	password := p.Str("password")
	if password == "" {
		return nil, pdferr.Validationf("a password is required")
	}

	conf := l.conf()
	conf.UserPW = password
	conf.OwnerPW = password
	if err := api.DecryptFile(in, out, conf); err != nil {
		return nil, pdferr.Operationf("decryption failed, check the supplied password: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF unlocked successfully: %s", out), out), nil
}
