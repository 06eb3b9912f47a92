package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Dữ liệu không hợp lệ"
	case ErrInvalidPayload:
		return "Nội dung yêu cầu không hợp lệ"
	case ErrNotFound:
		return "Không tìm thấy"
	case ErrRateLimitExceeded:
		return "Quá nhiều yêu cầu, vui lòng thử lại sau"
	case ErrInternal:
		return "Lỗi máy chủ"
	default:
		return "Lỗi máy chủ"
	}
}
