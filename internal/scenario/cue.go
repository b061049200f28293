package scenario

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// scenarioPath is the top-level CUE field holding the definition:
//
//	scenario: {
//	    name: "devices"
//	    categories: { ... }
//	    agents: [ ... ]
//	}
const scenarioPath = "scenario"

// LoadCUEFile compiles a standalone CUE file and extracts its
// scenario definition.
func LoadCUEFile(path string) (*Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", path, err)
	}
	return decodeCUE(value, path)
}

// LoadCUEDir loads a directory as a CUE package and extracts its
// scenario definition. This is the multi-file form: a package can
// split categories and agents across files and share constraint
// schemas between scenarios.
func LoadCUEDir(dir string) (*Definition, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("scenario: no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", dir, inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("scenario: build %s: %w", dir, err)
	}
	return decodeCUE(value, dir)
}

func decodeCUE(value cue.Value, origin string) (*Definition, error) {
	scenarioVal := value.LookupPath(cue.ParsePath(scenarioPath))
	if !scenarioVal.Exists() {
		return nil, fmt.Errorf("scenario: %s has no top-level %q field", origin, scenarioPath)
	}
	if err := scenarioVal.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("scenario: %s is not concrete: %w", origin, err)
	}

	var def Definition
	if err := scenarioVal.Decode(&def); err != nil {
		return nil, fmt.Errorf("scenario: decode %s: %w", origin, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
