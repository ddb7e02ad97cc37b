package constants

// Team workflow error codes
const (
	ErrCodeInvalidName        = "INVALID_NAME"
	ErrCodeInvalidAbout       = "INVALID_ABOUT"
	ErrCodeNameTaken          = "NAME_TAKEN"
	ErrCodeNotRegistered      = "NOT_REGISTERED"
	ErrCodeAlreadyInTeam      = "ALREADY_IN_TEAM"
	ErrCodeTargetInTeam       = "TARGET_IN_TEAM"
	ErrCodeNoTeam             = "NO_TEAM"
	ErrCodeNotOwner           = "NOT_OWNER"
	ErrCodeOwnerCannotLeave   = "OWNER_CANNOT_LEAVE"
	ErrCodeSelfTarget         = "SELF_TARGET"
	ErrCodeNotInTeam          = "NOT_IN_TEAM"
	ErrCodeTeamNotFound       = "TEAM_NOT_FOUND"
	ErrCodeTeamFull           = "TEAM_FULL"
	ErrCodeInviteNotFound     = "INVITE_NOT_FOUND"
	ErrCodeInviteExpired      = "INVITE_EXPIRED"
	ErrCodeNotInvitee         = "NOT_INVITEE"
	ErrCodeAlreadyResolved    = "ALREADY_RESOLVED"
	ErrCodePermissionDenied   = "PERMISSION_DENIED"
	ErrCodeRoleNotConfigured  = "ROLE_NOT_FOUND"
	ErrCodeProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST"
)

const (
	MsgNameTooLong       = "Team name must be less than 20 characters."
	MsgNameTooShort      = "Team name must be at least 3 characters."
	MsgNameNotAlnum      = "Team name must be alphanumeric."
	MsgAboutTooLong      = "Profile description must be at most 150 characters."
	MsgAlreadyInTeam     = "You are already in a team!"
	MsgMustLeaveFirst    = "You must leave your existing team before accepting a new one!"
	MsgNotOwner          = "You do not own a team!"
	MsgNoTeam            = "You are not in a team!"
	MsgOwnerCannotLeave  = "You cannot leave your own team! Please delete it instead."
	MsgCannotInviteSelf  = "You cannot invite yourself!"
	MsgCannotKickSelf    = "You cannot kick yourself!"
	MsgTeamNotFound      = "Team not found!"
	MsgSpecifyTeam       = "Please specify a team!"
	MsgTeamFull          = "This team is already full!"
	MsgInviteNotFound    = "You do not have a pending invite from this team!"
	MsgInviteExpired     = "This invite has expired."
	MsgNotInvitee        = "You cannot interact with this button."
	MsgAlreadyResolved   = "This invite has already been answered."
	MsgNotRegistered     = "You are not registered."
	MsgAdminOnly         = "You need the Administrator permission to use this command."
	MsgNoTeamsYet        = "No teams have been created yet."
	MsgNoDescription     = "No description set."
	MsgUnexpectedFailure = "Something went wrong. Please try again later."
)
