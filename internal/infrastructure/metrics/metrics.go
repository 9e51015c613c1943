package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the "result" label.
const (
	RequestsTotal = "app_requests_total"

	UserRegisteredTotal   = "user_registered_total"
	UserDeletedTotal      = "user_deleted_total"
	UserAdminToggledTotal = "user_admin_toggled_total"
	LoginFailedTotal      = "login_failed_total"

	FileUploadedTotal   = "file_uploaded_total"
	FileRenamedTotal    = "file_renamed_total"
	FileCommentedTotal  = "file_commented_total"
	FileDeletedTotal    = "file_deleted_total"
	FileDownloadedTotal = "file_downloaded_total"
	ContentMissingTotal = "file_content_missing_total"
	CleanupFailedTotal  = "storage_cleanup_failed_total"
)

// NewCounter registers filestorage_general_counters on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filestorage",
			Name:      "general_counters",
		},
		[]string{"result"})
}
