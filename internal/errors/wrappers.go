package errors

import "fmt"

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause),
		Input:     item,
	}
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(stage, interfaceName string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to generate %s", interfaceName)
	err := &GenerationError{
		BaseError:     Wrap(GenerationErrorCode, message, cause),
		InterfaceName: interfaceName,
		Stage:         stage,
	}
	err.WithContext("interface", interfaceName).WithContext("stage", stage)
	return err
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return &GenerationError{
		BaseError:  Wrap(TemplateErrorCode, message, cause),
		TargetFile: templateName,
		Stage:      operation,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapManifestError wraps errors raised while reading a manifest
func WrapManifestError(path, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s manifest", operation)
	return Wrap(ManifestErrorCode, message, cause).
		WithLocation(SourceLocation{File: path}).
		WithContext("operation", operation)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ManifestError creates a manifest error without wrapping
func ManifestError(loc SourceLocation, format string, args ...interface{}) *BaseError {
	return Newf(ManifestErrorCode, format, args...).WithLocation(loc)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err IfaceError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
