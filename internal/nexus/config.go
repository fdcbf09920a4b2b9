// Package nexus loads layered configuration: dotenv files, an optional config
// file, the process environment and any extra sources, in that order of
// increasing precedence.
package nexus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// ConfigError represents domain-specific configuration errors
type ConfigError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType   = "CONFIG_INVALID_TYPE"
	ErrCodeFileNotFound  = "CONFIG_FILE_NOT_FOUND"
	ErrCodeValidation    = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment   = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge         = "CONFIG_MERGE_FAILED"
	ErrCodeSourceFailed  = "CONFIG_SOURCE_FAILED"
	ErrCodeSecurityCheck = "CONFIG_SECURITY_CHECK_FAILED"
)

// Source is an extra configuration layer applied after the environment.
type Source interface {
	Load(ctx context.Context, target interface{}) error
	Name() string
	// Priority orders sources; higher priorities are applied last and win.
	Priority() int
}

// Validator handles configuration validation
type Validator interface {
	Validate(ctx context.Context, cfg interface{}) error
}

// SecurityChecker rejects configurations that carry placeholder secrets
type SecurityChecker interface {
	CheckSecurity(ctx context.Context, cfg interface{}) error
}

// LoaderOptions contains configuration for the loader
type LoaderOptions struct {
	// EnvFiles are dotenv files exported into the process environment
	// before anything is read. Missing files are skipped.
	EnvFiles        []string
	FileName        string
	OnlyEnvironment bool
	Validator       Validator
	SecurityChecker SecurityChecker
	Sources         []Source
	Timeout         time.Duration
}

// Loader represents a modular configuration loader
type Loader struct {
	options LoaderOptions
}

type LoaderOption func(*LoaderOptions)

// WithEnvFiles sets the dotenv files to export. The default is ".env".
func WithEnvFiles(files ...string) LoaderOption {
	return func(o *LoaderOptions) {
		if len(files) > 0 {
			o.EnvFiles = files
		}
	}
}

// WithFileName reads a yaml, json, toml or env file underneath the environment
func WithFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileName = fileName
	}
}

// WithOnlyEnvironment ignores every file
func WithOnlyEnvironment() LoaderOption {
	return func(o *LoaderOptions) {
		o.OnlyEnvironment = true
	}
}

func WithValidator(v Validator) LoaderOption {
	return func(o *LoaderOptions) {
		o.Validator = v
	}
}

func WithSecurityChecker(sc SecurityChecker) LoaderOption {
	return func(o *LoaderOptions) {
		o.SecurityChecker = sc
	}
}

func WithSources(sources ...Source) LoaderOption {
	return func(o *LoaderOptions) {
		o.Sources = append(o.Sources, sources...)
	}
}

func WithTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.Timeout = timeout
	}
}

// NewLoader creates a new configuration loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	options := LoaderOptions{
		EnvFiles:        []string{".env"},
		Validator:       &DefaultValidator{},
		SecurityChecker: &DefaultSecurityChecker{},
		Timeout:         30 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Loader{options: options}
}

// Load loads configuration from all configured sources
func (l *Loader) Load(cfg interface{}) error {
	return l.LoadWithContext(context.Background(), cfg)
}

// LoadWithContext fills cfg, which must be a pointer to a struct.
func (l *Loader) LoadWithContext(ctx context.Context, cfg interface{}) error {
	if l.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.options.Timeout)
		defer cancel()
	}

	if v := reflect.ValueOf(cfg); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}

	if !l.options.OnlyEnvironment {
		if err := l.exportEnvFiles(); err != nil {
			return err
		}
	}
	if err := l.readBase(cfg); err != nil {
		return err
	}
	if err := l.applySources(ctx, cfg); err != nil {
		return err
	}

	if err := l.options.SecurityChecker.CheckSecurity(ctx, cfg); err != nil {
		return &ConfigError{Code: ErrCodeSecurityCheck, Message: "security validation failed", Cause: err}
	}
	if err := l.options.Validator.Validate(ctx, cfg); err != nil {
		return &ConfigError{Code: ErrCodeValidation, Message: "configuration validation failed", Cause: err}
	}
	return nil
}

// exportEnvFiles never overrides variables already set in the process.
func (l *Loader) exportEnvFiles() error {
	for _, file := range l.options.EnvFiles {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return &ConfigError{
				Code:    ErrCodeFileNotFound,
				Message: fmt.Sprintf("failed to read env file: %s", file),
				Cause:   err,
			}
		}
	}
	return nil
}

// readBase reads the config file, if any, with the environment on top.
func (l *Loader) readBase(cfg interface{}) error {
	if l.options.FileName != "" && !l.options.OnlyEnvironment {
		if err := cleanenv.ReadConfig(l.options.FileName, cfg); err != nil {
			return &ConfigError{
				Code:    ErrCodeFileNotFound,
				Message: fmt.Sprintf("failed to read configuration file: %s", l.options.FileName),
				Cause:   err,
			}
		}
		return nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return &ConfigError{Code: ErrCodeEnvironment, Message: "failed to read environment variables", Cause: err}
	}
	return nil
}

// applySources loads each source into a scratch copy and merges its non-zero
// fields over cfg, lowest priority first.
func (l *Loader) applySources(ctx context.Context, cfg interface{}) error {
	sources := slices.Clone(l.options.Sources)
	slices.SortStableFunc(sources, func(a, b Source) int {
		return a.Priority() - b.Priority()
	})

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		layer := reflect.New(reflect.ValueOf(cfg).Elem().Type()).Interface()
		if err := source.Load(ctx, layer); err != nil {
			return &ConfigError{
				Code:    ErrCodeSourceFailed,
				Message: fmt.Sprintf("failed to load from source: %s", source.Name()),
				Cause:   err,
			}
		}
		if err := mergo.Merge(cfg, layer, mergo.WithOverride); err != nil {
			return &ConfigError{Code: ErrCodeMerge, Message: "failed to merge configuration sources", Cause: err}
		}
	}
	return nil
}

// DefaultValidator validates `validate` struct tags, nested structs included
type DefaultValidator struct {
	validator *validator.Validate
}

func (v *DefaultValidator) Validate(_ context.Context, cfg interface{}) error {
	if v.validator == nil {
		v.validator = validator.New()
	}
	return v.validator.Struct(cfg)
}

// DefaultSecurityChecker rejects secrets that look like placeholders. It walks
// nested structs so module configs are covered too.
type DefaultSecurityChecker struct{}

var (
	sensitiveFields = []string{"password", "secret", "key", "token", "credential"}
	exposedPatterns = []string{"password", "123456", "changeme", "example"}
)

func (sc *DefaultSecurityChecker) CheckSecurity(_ context.Context, cfg interface{}) error {
	return sc.walk(reflect.ValueOf(cfg).Elem(), "")
}

func (sc *DefaultSecurityChecker) walk(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field, meta := val.Field(i), typ.Field(i)
		if !meta.IsExported() {
			continue
		}
		name := prefix + meta.Name

		switch field.Kind() {
		case reflect.Struct:
			if err := sc.walk(field, name+"."); err != nil {
				return err
			}
		case reflect.String:
			if containsAny(meta.Name, sensitiveFields) && containsAny(field.String(), exposedPatterns) {
				return fmt.Errorf("sensitive field %s appears to contain a placeholder value", name)
			}
		}
	}
	return nil
}

func containsAny(s string, needles []string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// FileSource implements Source interface for file-based configuration
type FileSource struct {
	FilePath string
	priority int
}

func NewFileSource(filePath string, priority int) *FileSource {
	return &FileSource{FilePath: filePath, priority: priority}
}

func (fs *FileSource) Load(_ context.Context, target interface{}) error {
	return cleanenv.ReadConfig(fs.FilePath, target)
}

func (fs *FileSource) Name() string {
	return "file:" + fs.FilePath
}

func (fs *FileSource) Priority() int {
	return fs.priority
}
