package sweep

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the on disk definition of a sweep. Both YAML and HCL use the same attribute names.
type File struct {
	Experiment     string      `yaml:"experiment" hcl:"experiment" validate:"required,excludesall=/"`
	Modes          []string    `yaml:"modes" hcl:"modes" validate:"required,min=1,dive,oneof=sgx native tpch tpch-native"`
	Flags          [][]string  `yaml:"flags" hcl:"flags,optional" validate:"dive,dive,required"`
	FlagPowerset   []string    `yaml:"flag_powerset" hcl:"flag_powerset,optional" validate:"dive,required"`
	Sizes          [][]int64   `yaml:"sizes" hcl:"sizes,optional" validate:"dive,len=2,dive,gt=0"`
	SizesMB        [][]float64 `yaml:"size_mb" hcl:"size_mb,optional" validate:"dive,len=2,dive,gt=0"`
	ScaleFactors   []int       `yaml:"scale_factors" hcl:"scale_factors,optional" validate:"dive,gt=0"`
	Queries        []int       `yaml:"queries" hcl:"queries,optional" validate:"dive,gt=0"`
	Algorithms     []string    `yaml:"algorithms" hcl:"algorithms" validate:"required,min=1,dive,required"`
	Threads        []int       `yaml:"threads" hcl:"threads" validate:"required,min=1,dive,gt=0"`
	Materialize    []bool      `yaml:"materialize" hcl:"materialize,optional"`
	InitCores      []int       `yaml:"init_core" hcl:"init_core,optional" validate:"dive,gte=0"`
	DynamicEnclave []bool      `yaml:"dynamic_enclave" hcl:"dynamic_enclave,optional"`
	Mitigation     []bool      `yaml:"mitigation" hcl:"mitigation,optional"`
	Skew           []float64   `yaml:"skew" hcl:"skew,optional" validate:"dive,gte=0"`
	Repetitions    int         `yaml:"repetitions" hcl:"repetitions,optional" validate:"gte=0"`
	Debug          bool        `yaml:"debug" hcl:"debug,optional"`
	CPMS           int         `yaml:"cpms" hcl:"cpms,optional" validate:"gte=0"`
}

var validate = validator.New()

// LoadFile reads a sweep definition. Files ending with .hcl are parsed as HCL,
// everything else as YAML. The file is validated before it is returned.
func LoadFile(path string) (*File, error) {
	file := &File{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		err := hclsimple.DecodeFile(path, nil, file)
		if err != nil {
			return nil, errors.WithStack(&ConfigurationError{Reason: err.Error()})
		}
	default:
		content, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read sweep file %q", path)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		// Typos in attribute names must not silently shrink a sweep.
		decoder.KnownFields(true)
		err = decoder.Decode(file)
		if err != nil {
			return nil, newConfigurationError("could not parse %q: %v", path, err)
		}
	}

	err := file.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "sweep file %q", path)
	}
	return file, nil
}

// Validate checks attribute constraints of the file and returns a ConfigurationError.
func (f *File) Validate() error {
	err := validate.Struct(f)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			messages := []string{}
			for _, fieldError := range validationErrors {
				messages = append(messages, fieldError.Error())
			}
			return newConfigurationError("%s", strings.Join(messages, "; "))
		}
		return newConfigurationError("%v", err)
	}

	if len(f.Flags) > 0 && len(f.FlagPowerset) > 0 {
		return newConfigurationError("flags and flag_powerset are mutually exclusive")
	}
	return nil
}

// Space converts the file into a validated Space.
func (f *File) Space() (Space, error) {
	space := Space{
		FlagSets:       f.Flags,
		ScaleFactors:   f.ScaleFactors,
		Queries:        f.Queries,
		Algorithms:     f.Algorithms,
		Threads:        f.Threads,
		Materialize:    f.Materialize,
		InitCores:      f.InitCores,
		DynamicEnclave: f.DynamicEnclave,
		Mitigation:     f.Mitigation,
		Skew:           f.Skew,
		Repetitions:    f.Repetitions,
		Debug:          f.Debug,
		CPMS:           f.CPMS,
	}

	for _, name := range f.Modes {
		mode, err := ParseMode(name)
		if err != nil {
			return Space{}, err
		}
		space.Modes = append(space.Modes, mode)
	}

	if len(f.FlagPowerset) > 0 {
		space.FlagSets = Powerset(f.FlagPowerset)
	}

	for _, size := range f.Sizes {
		space.Sizes = append(space.Sizes, Size{R: size[0], S: size[1]})
	}
	for _, size := range f.SizesMB {
		space.Sizes = append(space.Sizes, Size{R: TuplesFromMB(size[0]), S: TuplesFromMB(size[1])})
	}

	if err := space.Validate(); err != nil {
		return Space{}, err
	}
	return space, nil
}
