package constants

// Centralized constants for env keys, routes, JSON keys and log fields.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvDuelConfig          = "DUEL_CONFIG"
	EnvDuelDB              = "DUEL_DB"

	// Session / Cookie names
	CookieSessionName = "d_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteVersion            = "/version"
	RouteStyles             = "/styles"
	RouteOpenDuels          = "/duels/open"
	RouteLeaderboard        = "/leaderboard"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RoutePlayerStats        = "/player-stats"
	RouteDuels              = "/duels"
	RouteDuelsJoin          = "/duels/join"
	RouteDuelByCode         = "/duels/:duelCode"
	RouteDuelAccept         = "/duels/:duelCode/accept"
	RouteDuelDecline        = "/duels/:duelCode/decline"
	RouteDuelCancel         = "/duels/:duelCode/cancel"
	RouteDuelStart          = "/duels/:duelCode/start"
	RouteDuelStyle          = "/duels/:duelCode/style"
	RouteDuelSwing          = "/duels/:duelCode/swing"
	RouteDuelStop           = "/duels/:duelCode/stop"
	RouteDuelForfeit        = "/duels/:duelCode/forfeit"
	RouteDuelClaimTimeout   = "/duels/:duelCode/claim-timeout"
	RouteEvents             = "/ws"
)

// Common JSON response keys
const (
	JSONKeyError    = "error"
	JSONKeyMessage  = "message"
	JSONKeyDetails  = "details"
	JSONKeySnapshot = "snapshot"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidDuelCode  = "Invalid duel code"
	ErrDuelNotFound     = "Duel not found"

	ErrFailedCreateDuel     = "Failed to create duel"
	ErrFailedUpdateDuel     = "Failed to update duel"
	ErrFailedFetchDuels     = "Failed to fetch duels"
	ErrFailedFetchStyles    = "Failed to fetch styles"
	ErrFailedFetchStats     = "Failed to fetch stats"
	ErrFailedFetchLeaders   = "Failed to fetch leaderboard"
	ErrPlayerNotInThisDuel  = "Player not in this duel"
	ErrDuelFull             = "Duel is full"
	ErrCannotJoinOwnDuel    = "Cannot join your own duel"
	ErrInsufficientGold     = "Not enough gold for the wager"
	ErrChallengeNotForYou   = "This challenge was sent to another player"
	ErrDuelNotJoinable      = "Duel is not open for joining"
	ErrDuelNotReady         = "Both players must be present to start"
	ErrDuelAlreadyStarted   = "Duel already started"
	ErrDuelAlreadyEnded     = "Duel already ended"
	ErrActionNotInPhase     = "Action not valid in the current phase"
	ErrStyleAlreadyLocked   = "Style already locked this round"
	ErrUnknownStyle         = "Unknown attack style"
	ErrNoSwingsRemaining    = "No swings remaining"
	ErrStopRequiresSwing    = "Cannot stop before swinging at least once"
	ErrTimeoutTooEarly      = "Opponent's deadline has not passed yet"
	ErrFailedStoreAction    = "Failed to store action"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldMatchID = "match_id"
	LogFieldCode    = "join_code"
	LogFieldPlayer  = "player_uuid"
	LogFieldRound   = "round"
	LogFieldSeq     = "seq"
	LogFieldEvent   = "event"
	LogFieldAddr    = "addr"
)
