package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInviteLinkPublic(t *testing.T) {
	for _, link := range []string{
		"t.me/golang_group",
		"https://t.me/golang_group",
		"http://telegram.me/golang_group",
		"t.me/golang_group?start=1",
	} {
		parsed, ok := ParseInviteLink(link)
		require.True(t, ok, link)
		assert.Equal(t, LinkKindPublic, parsed.Kind, link)
		assert.Equal(t, "golang_group", parsed.Target, link)
	}
}

func TestParseInviteLinkPrivate(t *testing.T) {
	parsed, ok := ParseInviteLink("https://t.me/+AbCd-Ef_123")
	require.True(t, ok)
	assert.Equal(t, LinkKindPrivate, parsed.Kind)
	assert.Equal(t, "AbCd-Ef_123", parsed.Target)
}

func TestParseInviteLinkJoinchat(t *testing.T) {
	parsed, ok := ParseInviteLink("https://t.me/joinchat/AbCdEf123")
	require.True(t, ok)
	assert.Equal(t, LinkKindJoinchat, parsed.Kind)
	assert.Equal(t, "AbCdEf123", parsed.Target)
}

func TestParseInviteLinkPublicTakesPrecedence(t *testing.T) {
	// A plain username never reads as an invite hash.
	parsed, ok := ParseInviteLink("t.me/some_group")
	require.True(t, ok)
	assert.Equal(t, LinkKindPublic, parsed.Kind)
}

func TestParseInviteLinkRejects(t *testing.T) {
	for _, link := range []string{
		"",
		"not a link",
		"t.me/abc",          // username too short
		"t.me/1numberfirst", // username must start with a letter
		"https://example.com/whatever",
		"hello+world",                     // a bare "+" is not an invite
		"https://evil.com/+AbCdEf123",     // invite hashes only on t.me hosts
		"https://evil.com/joinchat/AbCde", // same for legacy joinchat paths
	} {
		_, ok := ParseInviteLink(link)
		assert.False(t, ok, link)
	}
}
