package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

var saleIDSpace = big.NewInt(900000)

// GenerateSaleID returns a random 6-digit sale number (100000-999999).
// Callers check for collisions.
func GenerateSaleID() (string, error) {
	n, err := rand.Int(rand.Reader, saleIDSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateVerificationCode derives the short code printed under a receipt QR.
func GenerateVerificationCode(ref string) string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceOID, []byte(ref)).String(), "-", ""))
	return code[:8]
}
