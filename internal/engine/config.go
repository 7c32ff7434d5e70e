package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/bpvar-cli/internal/classify"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
	"github.com/KaramelBytes/bpvar-cli/internal/normalize"
	"github.com/KaramelBytes/bpvar-cli/internal/segment"
	"github.com/KaramelBytes/bpvar-cli/internal/variability"
)

// DefaultWorkers is the number of patients analysed concurrently.
const DefaultWorkers = 4

// Config holds every tunable of an analysis run.
type Config struct {
	Windows       segment.Windows     `json:"windows" yaml:"windows"`
	Thresholds    classify.Thresholds `json:"thresholds" yaml:"thresholds"`
	MinSampleSize int                 `json:"min_sample_size" yaml:"min_sample_size" validate:"min=2,max=1000"`
	Workers       int                 `json:"workers" yaml:"workers" validate:"min=1,max=256"`
	Normalize     normalize.Options   `json:"normalize" yaml:"normalize"`
}

// DefaultConfig returns the standard ABPM analysis settings.
func DefaultConfig() Config {
	return Config{
		Windows:       segment.DefaultWindows(),
		Thresholds:    classify.DefaultThresholds(),
		MinSampleSize: variability.DefaultMinSample,
		Workers:       DefaultWorkers,
		Normalize:     normalize.DefaultOptions(),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first invalid setting as a *model.ConfigurationError.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			return &model.ConfigurationError{
				Key:    fe.Field(),
				Reason: fmt.Sprintf("must satisfy %s=%s, got %v", fe.Tag(), fe.Param(), fe.Value()),
			}
		}
		return &model.ConfigurationError{Key: "config", Reason: err.Error()}
	}
	if err := c.Windows.Validate(); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}
