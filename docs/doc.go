// Package docs provides generated OpenAPI documentation.
//
// Presence API
//
//	@title			Presence API
//	@version		1.0
//	@description	PR and marketing content assistant: sessions, generation, history and campaign briefs.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/presence
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/presence/serve.go -o ./swagger --parseDependency --parseInternal
