// Package logging provides structured logging for staffgate.
//
// It wraps log/slog so every record carries the service name and build
// version. JSON is the production format; text is easier to read locally.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// Never log passwords, password hashes or tokens.
package logging
