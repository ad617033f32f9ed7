package task

// Document is the authored form of a task. Facts are written as
// variable-name to value-name maps.
type Document struct {
	Name      string            `yaml:"name" json:"name" mapstructure:"name"`
	Variables []VariableDoc     `yaml:"variables" json:"variables" mapstructure:"variables"`
	Init      map[string]string `yaml:"init" json:"init" mapstructure:"init"`
	Goal      map[string]string `yaml:"goal" json:"goal" mapstructure:"goal"`
	Operators []OperatorDoc     `yaml:"operators" json:"operators" mapstructure:"operators"`
	Axioms    []AxiomDoc        `yaml:"axioms,omitempty" json:"axioms,omitempty" mapstructure:"axioms"`
}

// VariableDoc declares a finite-domain variable.
type VariableDoc struct {
	Name   string   `yaml:"name" json:"name" mapstructure:"name"`
	Values []string `yaml:"values" json:"values" mapstructure:"values"`
	// Derived variables are computed by axioms and reset to Default first.
	Derived bool   `yaml:"derived,omitempty" json:"derived,omitempty" mapstructure:"derived"`
	Layer   int    `yaml:"layer,omitempty" json:"layer,omitempty" mapstructure:"layer"`
	Default string `yaml:"default,omitempty" json:"default,omitempty" mapstructure:"default"`
}

// OperatorDoc declares an operator. A nil Cost means 1.
type OperatorDoc struct {
	Name    string            `yaml:"name" json:"name" mapstructure:"name"`
	Cost    *int              `yaml:"cost,omitempty" json:"cost,omitempty" mapstructure:"cost"`
	Pre     map[string]string `yaml:"pre,omitempty" json:"pre,omitempty" mapstructure:"pre"`
	Effects []EffectDoc       `yaml:"eff" json:"eff" mapstructure:"eff"`
}

// EffectDoc sets facts when its conditions hold in the parent state.
type EffectDoc struct {
	When map[string]string `yaml:"when,omitempty" json:"when,omitempty" mapstructure:"when"`
	Set  map[string]string `yaml:"set" json:"set" mapstructure:"set"`
}

// AxiomDoc derives a single fact when its conditions hold.
type AxiomDoc struct {
	When map[string]string `yaml:"when,omitempty" json:"when,omitempty" mapstructure:"when"`
	Set  map[string]string `yaml:"set" json:"set" mapstructure:"set"`
}
