package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SubmissionTicket is the signed, single-slot token that authorizes one
// payment attempt for a pending order. A ticket is minted when the order
// is committed and its ID is recorded on the order; submission only
// proceeds when the presented ticket matches the stored ID, which makes
// the at-most-once guarantee structural rather than a disabled-button
// convention. A failed submission keeps the order but a retry goes
// through a fresh commit, which mints a new ticket and invalidates the
// old one.
type SubmissionTicket struct {
	Token     string    // serialized signed token handed to the payment step
	ID        string    // ticket id (jti claim), recorded on the pending order
	ExpiresAt time.Time // UTC expiry
}

// Ticket verification errors.
var (
	ErrTicketInvalid = errors.New("submission ticket invalid")
	ErrTicketExpired = errors.New("submission ticket expired")
)

// TicketIssuer signs and verifies submission tickets with an HS256
// secret shared by the booking and payment steps of the same service.
type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTicketIssuer builds an issuer. The TTL bounds how long a committed
// order may sit on the confirmation screen before payment; expired
// tickets force the customer back through commit.
func NewTicketIssuer(secret string, ttl time.Duration) *TicketIssuer {
	return &TicketIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a ticket bound to a session. The jti claim carries the
// ticket id; sub carries the session id.
func (ti *TicketIssuer) Issue(sessionID string) (SubmissionTicket, error) {
	now := time.Now().UTC()
	exp := now.Add(ti.ttl)
	id := uuid.NewString()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"jti": id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(ti.secret)
	if err != nil {
		return SubmissionTicket{}, fmt.Errorf("sign submission ticket: %w", err)
	}
	return SubmissionTicket{Token: signed, ID: id, ExpiresAt: exp}, nil
}

// Verify checks the signature and expiry of a presented ticket and
// returns the session id and ticket id it was minted for.
func (ti *TicketIssuer) Verify(token string) (sessionID, ticketID string, err error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrTicketExpired
		}
		return "", "", ErrTicketInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", "", ErrTicketInvalid
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return "", "", ErrTicketInvalid
	}
	return sub, jti, nil
}
