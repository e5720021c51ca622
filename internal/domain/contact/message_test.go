package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	m, err := NewMessage(" Ren ", "REN@example.com", "", "Do you cater events?", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Ren", m.Name)
	assert.Equal(t, "ren@example.com", m.Email)
	assert.Equal(t, "General enquiry", m.Subject)
	assert.Equal(t, StatusNew, m.Status)
	require.Len(t, m.GetDomainEvents(), 1)

	cases := []struct{ name, email, subject, body string }{
		{"", "a@b.co", "s", "hello there"},
		{"A", "not-email", "s", "hello there"},
		{"A", "a@b.co", strings.Repeat("s", 201), "hello there"},
		{"A", "a@b.co", "s", "hey"},
		{"A", "a@b.co", "s", strings.Repeat("x", 5001)},
	}
	for _, c := range cases {
		_, err := NewMessage(c.name, c.email, c.subject, c.body, "")
		assert.Error(t, err)
	}
}

func TestMessage_SetStatus(t *testing.T) {
	m, err := NewMessage("A", "a@b.co", "s", "hello there", "")
	require.NoError(t, err)
	require.NoError(t, m.SetStatus(StatusRead))
	require.NoError(t, m.SetStatus(StatusArchived))
	assert.Error(t, m.SetStatus(StatusNew))
	assert.Error(t, m.SetStatus(Status("spam")))
}
