package model

// VersionInfo describes the running application and its database schema.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DbVersion  int64  `json:"dbVersion"`
}
