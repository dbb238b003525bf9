package feeds

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/busproximity/pkg/ctdf"
	"github.com/travigo/busproximity/pkg/util"
)

// DefaultClassifierExpression treats any vehicle whose id starts with "bus"
// as part of the tracked fleet, which is the naming used by the SUMO scenarios
const DefaultClassifierExpression = `id startsWith "bus"`

// VehicleFacts is what a classifier expression can see about a vehicle
type VehicleFacts struct {
	ID    string
	Label string
	Route string
	Type  string
}

func (f VehicleFacts) env() map[string]any {
	return map[string]any{
		"id":    f.ID,
		"label": f.Label,
		"route": f.Route,
		"type":  f.Type,
	}
}

// Classifier decides which vehicles are buses using an expr-lang boolean
// expression, for example `id startsWith "bus"` or `type == "bus" || route in ["1", "7"]`.
type Classifier struct {
	Expression string

	program *vm.Program
	results map[VehicleFacts]ctdf.VehicleType
}

func NewClassifier(expression string) (*Classifier, error) {
	if expression == "" {
		expression = DefaultClassifierExpression
	}

	program, err := expr.Compile(expression, expr.Env(VehicleFacts{}.env()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid classifier expression %q: %w", expression, err)
	}

	return &Classifier{
		Expression: expression,
		program:    program,
		results:    map[VehicleFacts]ctdf.VehicleType{},
	}, nil
}

// GetClassifierExpression returns the classifier expression
// from the environment or the default
func GetClassifierExpression() string {
	return util.GetEnvironmentVariable("TRAVIGO_PROXIMITY_CLASSIFIER", DefaultClassifierExpression)
}

func (c *Classifier) Classify(facts VehicleFacts) (ctdf.VehicleType, error) {
	if vehicleType, exists := c.results[facts]; exists {
		return vehicleType, nil
	}

	output, err := expr.Run(c.program, facts.env())
	if err != nil {
		return ctdf.VehicleTypeUnknown, fmt.Errorf("failed to classify vehicle %s: %w", facts.ID, err)
	}

	vehicleType := ctdf.VehicleTypeCar
	if isBus, _ := output.(bool); isBus {
		vehicleType = ctdf.VehicleTypeBus
	}

	c.results[facts] = vehicleType

	return vehicleType, nil
}
