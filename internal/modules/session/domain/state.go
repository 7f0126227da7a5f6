package domain

//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

// State is the listener session lifecycle. Authorized is reachable
// directly from Connecting when a previously saved session is still
// valid. Failed is recoverable by reconnecting.
// ENUM(disconnected,connecting,awaiting_code,awaiting_two_factor,authorized,listening,failed)
type State string

// LinkKind is the shape of a group invite link.
// ENUM(public,private,joinchat)
type LinkKind string

// JoinOutcome is the stable result of a join attempt, mapped from
// transport-specific errors.
// ENUM(joined,already_member,invalid_link,expired_link,private_no_access,admin_required,rate_limited,failed)
type JoinOutcome string
