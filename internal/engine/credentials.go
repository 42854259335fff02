package engine

import (
	"errors"
	"strings"
)

// Credential is an API key for the remote model. Its String form is
// redacted, so passing one to a logger or fmt verb never prints the secret.
type Credential struct {
	value string
}

// NewCredential wraps a raw key.
func NewCredential(value string) Credential {
	return Credential{value: value}
}

// Value returns the raw key for use in a request header.
func (c Credential) Value() string { return c.value }

func (c Credential) String() string {
	if len(c.value) < 12 {
		return "****"
	}
	return "****" + c.value[len(c.value)-4:]
}

// GoString keeps %#v redacted too.
func (c Credential) GoString() string { return "engine.Credential(" + c.String() + ")" }

// Redact replaces every occurrence of the raw key in s.
func (c Credential) Redact(s string) string {
	if c.value == "" {
		return s
	}
	return strings.ReplaceAll(s, c.value, c.String())
}

// CredentialPool is the ordered, immutable list of credentials tried for
// every generation. Order is priority; duplicates are kept.
type CredentialPool struct {
	creds []Credential
}

// NewCredentialPool builds a pool from raw keys, skipping blank ones.
func NewCredentialPool(keys ...string) CredentialPool {
	creds := make([]Credential, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		creds = append(creds, NewCredential(k))
	}
	return CredentialPool{creds: creds}
}

// Len returns the number of credentials.
func (p CredentialPool) Len() int { return len(p.creds) }

// At returns the i-th credential.
func (p CredentialPool) At(i int) Credential { return p.creds[i] }

// redactedError hides a credential value from an error message while
// keeping the cause reachable through errors.Is and errors.As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func scrub(err error, cred Credential) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	clean := cred.Redact(msg)
	if clean == msg {
		return err
	}
	return &redactedError{msg: clean, err: err}
}

// errEmptyResponse is returned by providers that answer without text.
var errEmptyResponse = errors.New("empty response from model")
