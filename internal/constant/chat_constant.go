package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// DefaultSessionTitle names a session before the first turn gives it
	// a real title.
	DefaultSessionTitle = "새 대화"

	// TurnFailureReply is the user-visible message for an unrecoverable
	// turn failure. The failed turn is rolled back before it is sent.
	TurnFailureReply = "죄송합니다, 오류가 발생하여 답변을 생성할 수 없습니다. 잠시 후 다시 시도해주세요."

	// User-visible messages for the remaining failure surfaces. Raw
	// error strings never reach the client.
	RateLimitedReply       = "요청이 많아 잠시 처리할 수 없습니다. 잠시 후 다시 시도해주세요."
	SessionTerminatedReply = "이미 종료된 대화입니다. 새 대화를 시작해주세요."
	SessionBusyReply       = "이전 질문을 아직 처리하고 있습니다. 잠시만 기다려주세요."
	SessionNotFoundReply   = "대화를 찾을 수 없습니다."
	InternalErrorReply     = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)
