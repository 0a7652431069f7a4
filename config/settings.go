package config

// Legacy flat settings kept for the parts of the app that predate the
// structured core/config package. cmd syncs these from viper at startup.
var (
	AppVersion        = "v1.0.0"
	AppPort           = "3000"
	AppDebug          = false
	AppBasePath       = ""
	AppTrustedProxies []string

	PathStorages = "storages"
	PathUploads  = "storages/uploads"
)
