package reporting

// Backend turns lifecycle events and log entries into a report artifact.
// Operations may be called repeatedly; a failure is reported through the returned error
// and must leave the backend usable for later calls.
type Backend interface {
	SuiteLogInit() error
	TestLogInit() error
	AddProperty(key Property, value string) error
	Log(kind MessageType, message string) error
	ClearLog() error
	TestLogFinish() error
	SuiteLogFinish() error
}

// ExtendedBackend also accepts internal entries (images, stack traces).
type ExtendedBackend interface {
	Backend
	LogInternal(kind MessageType, message string) error
}

// ExceptionLogger is implemented by backends with a dedicated error handler.
// Backends without one get a Failed entry followed by a StackTrace entry.
type ExceptionLogger interface {
	LogException(err error) error
}

// PropertyConsumer is implemented by backends reading the dispatcher's shared property set.
type PropertyConsumer interface {
	UseProperties(properties *Properties)
}

// ExtensionConsumer is implemented by backends consulting the registered extensions.
type ExtensionConsumer interface {
	UseExtensions(extensions *Extensions)
}

// Extension is an optional capability provider consulted by backends.
type Extension interface {
	Name() string
}

// ScreenCapturer is an Extension able to save a screenshot into dir.
// It returns the base name of the written file.
type ScreenCapturer interface {
	Extension
	CaptureScreen(dir string) (string, error)
}
