// Package audit publishes one record per completed inspection to the result
// topic read by analytics. Publishing is best effort: it never blocks or
// fails scoring.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Event is the result record of one inspection.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Caller    string    `json:"caller,omitempty"`

	Domain     string `json:"domain"`
	PartyID    string `json:"party_id,omitempty"`
	ShopID     string `json:"shop_id,omitempty"`
	IdentityID string `json:"identity_id,omitempty"`
	// SubjectHash is the SHA-256 of the escalation subject (fingerprint,
	// identity, or card token). The raw value is never published.
	SubjectHash string `json:"subject_hash,omitempty"`

	RiskScore   string `json:"risk_score"`
	RuleID      string `json:"rule_id,omitempty"`
	RuleVersion uint64 `json:"rule_version,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Escalated   bool   `json:"escalated"`
	Evaluated   int    `json:"evaluated"`
	Failed      int    `json:"failed"`
}

// HashSubject returns the hex SHA-256 of subject, or "" for an empty subject.
func HashSubject(subject string) string {
	if subject == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:])
}
