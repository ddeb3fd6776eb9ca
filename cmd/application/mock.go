package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
//	mock := &application.Mock{
//	    PhotomapFunc: func(...photomap.Option) (photomap.Client, error) {
//	        return photomap.New(photomap.WithServer(ts.URL))
//	    },
//	}
//	cmd := markers.NewCommand(mock)
type Mock struct {
	PhotomapFunc     func(opts ...photomap.Option) (photomap.Client, error)
	CredentialsFunc  func() Credentials
	ServerURLFunc    func() string
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

var _ Application = (*Mock)(nil)

// Photomap returns a client using the mock function or nil.
func (m *Mock) Photomap(opts ...photomap.Option) (photomap.Client, error) {
	if m.PhotomapFunc != nil {
		return m.PhotomapFunc(opts...)
	}
	return nil, nil
}

// Credentials returns credentials using the mock function or none.
func (m *Mock) Credentials() Credentials {
	if m.CredentialsFunc != nil {
		return m.CredentialsFunc()
	}
	return Credentials{}
}

// ServerURL returns the server using the mock function or "".
func (m *Mock) ServerURL() string {
	if m.ServerURLFunc != nil {
		return m.ServerURLFunc()
	}
	return ""
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
