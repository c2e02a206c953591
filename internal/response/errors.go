package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials  ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired       ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid        ErrCode = "TOKEN_INVALID"
	ErrTokenExpired        ErrCode = "TOKEN_EXPIRED"
	ErrSessionTokenInvalid ErrCode = "SESSION_TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Onboarding & resume gate ──────────────────────────────────────
	ErrInvalidOTP            ErrCode = "INVALID_OTP"
	ErrInviteLinkInvalid     ErrCode = "INVITE_LINK_INVALID"
	ErrResumeRequired        ErrCode = "RESUME_REQUIRED"
	ErrResumeAlreadyUploaded ErrCode = "RESUME_ALREADY_UPLOADED"
	ErrOnboardingIncomplete  ErrCode = "ONBOARDING_INCOMPLETE"
	ErrResumeRejected        ErrCode = "RESUME_REJECTED"

	// ─── Session & judging ─────────────────────────────────────────────
	ErrSessionAlreadyStarted ErrCode = "SESSION_ALREADY_STARTED"
	ErrSessionNotStarted     ErrCode = "SESSION_NOT_STARTED"
	ErrSessionCompleted      ErrCode = "SESSION_COMPLETED"
	ErrSessionTerminated     ErrCode = "SESSION_TERMINATED"
	ErrNoActiveSet           ErrCode = "NO_ACTIVE_SET"
	ErrUnsupportedLanguage   ErrCode = "UNSUPPORTED_LANGUAGE"
	ErrNotProgramming        ErrCode = "NOT_PROGRAMMING_QUESTION"

	// ─── Evaluation & decision ─────────────────────────────────────────
	ErrInvalidTransition  ErrCode = "INVALID_TRANSITION"
	ErrEvaluationNotReady ErrCode = "EVALUATION_NOT_READY"
	ErrEvaluationPending  ErrCode = "EVALUATION_PENDING"
	ErrDecisionRecorded   ErrCode = "DECISION_ALREADY_RECORDED"

	// ─── Uploads ───────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email atau kata sandi salah."
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."
	case ErrTokenExpired:
		return "Token autentikasi telah kedaluwarsa."
	case ErrSessionTokenInvalid:
		return "Token sesi asesmen tidak valid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."
	case ErrPermissionDenied:
		return "Izin ditolak."
	case ErrAdminAccessOnly:
		return "Sumber daya ini terbatas untuk administrator."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrConflict:
		return "Sumber daya sudah ada."
	case ErrActionForbidden:
		return "Tindakan ini tidak diperbolehkan."

	// ─── Onboarding & resume gate ──────────────────────────────────────
	case ErrInvalidOTP:
		return "Kode OTP salah atau telah kedaluwarsa."
	case ErrInviteLinkInvalid:
		return "Tautan undangan tidak valid atau sudah ditutup."
	case ErrResumeRequired:
		return "Resume diperlukan sebelum melanjutkan."
	case ErrResumeAlreadyUploaded:
		return "Resume sudah diunggah dan sedang dianalisis."
	case ErrOnboardingIncomplete:
		return "Selesaikan semua langkah onboarding terlebih dahulu."
	case ErrResumeRejected:
		return "Resume Anda tidak memenuhi persyaratan posisi ini."

	// ─── Session & judging ─────────────────────────────────────────────
	case ErrSessionAlreadyStarted:
		return "Sesi asesmen sudah dimulai."
	case ErrSessionNotStarted:
		return "Sesi asesmen belum dimulai."
	case ErrSessionCompleted:
		return "Sesi asesmen sudah selesai."
	case ErrSessionTerminated:
		return "Sesi asesmen telah dihentikan karena pelanggaran."
	case ErrNoActiveSet:
		return "Tidak ada paket soal aktif untuk posisi ini."
	case ErrUnsupportedLanguage:
		return "Bahasa pemrograman tidak didukung."
	case ErrNotProgramming:
		return "Soal ini bukan soal pemrograman."

	// ─── Evaluation & decision ─────────────────────────────────────────
	case ErrInvalidTransition:
		return "Perubahan status tidak diperbolehkan."
	case ErrEvaluationNotReady:
		return "Evaluasi belum tersedia untuk kandidat ini."
	case ErrEvaluationPending:
		return "Evaluasi sedang berlangsung."
	case ErrDecisionRecorded:
		return "Keputusan sudah dicatat untuk evaluasi ini."

	// ─── Uploads ───────────────────────────────────────────────────────
	case ErrFileRequired:
		return "Berkas diperlukan."
	case ErrUnsupportedFile:
		return "Jenis berkas tidak didukung."
	case ErrFileTooLarge:
		return "Ukuran berkas melebihi batas maksimum."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
