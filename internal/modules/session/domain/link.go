package domain

import "regexp"

// InviteLink is a parsed Telegram chat link.
type InviteLink struct {
	Kind LinkKind
	// Target is the public username for public links, or the invite hash
	// for private and joinchat links.
	Target string
}

var (
	publicLinkRe   = regexp.MustCompile(`^(?:https?://)?(?:t\.me|telegram\.me)/([a-zA-Z][a-zA-Z0-9_]{3,31})(?:\?.*)?$`)
	privateLinkRe  = regexp.MustCompile(`(?:t\.me|telegram\.me)/\+([a-zA-Z0-9_-]+)`)
	joinchatLinkRe = regexp.MustCompile(`(?:t\.me|telegram\.me)/joinchat/([a-zA-Z0-9_-]+)`)
)

// ParseInviteLink classifies a t.me link. Public usernames are tried first
// so that "t.me/somegroup" never reads as an invite hash.
func ParseInviteLink(link string) (InviteLink, bool) {
	if m := publicLinkRe.FindStringSubmatch(link); m != nil {
		return InviteLink{Kind: LinkKindPublic, Target: m[1]}, true
	}
	if m := privateLinkRe.FindStringSubmatch(link); m != nil {
		return InviteLink{Kind: LinkKindPrivate, Target: m[1]}, true
	}
	if m := joinchatLinkRe.FindStringSubmatch(link); m != nil {
		return InviteLink{Kind: LinkKindJoinchat, Target: m[1]}, true
	}
	return InviteLink{}, false
}
