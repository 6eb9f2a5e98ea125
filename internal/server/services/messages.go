package services

// User-facing messages returned in API error bodies.
const (
	MsgUserNotFound      = "User not found"
	MsgCannotFollowSelf  = "You cannot follow yourself"
	MsgAlreadyFollowing  = "Already following this user"
	MsgNameEmpty         = "Name cannot be empty"
	MsgBioTooLong        = "Bio cannot be more than 200 characters"
	MsgPostLength        = "Post text must be between 1 and 280 characters"
	MsgEmailTaken        = "User already exists"
	MsgEmailEmpty        = "Email is required"
	MsgPasswordTooShort  = "Password must be at least 6 characters"
	MsgInvalidCredential = "Invalid credentials"
)

const (
	MaxBioLength      = 200
	MaxPostLength     = 280
	MinPasswordLength = 6
)
