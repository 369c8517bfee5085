package config

// DemandInput selects the demand source: a CSV file or a MongoDB
// collection. Exactly one of File and URI must be set.
type DemandInput struct {
	File string `yaml:"file,omitempty"` // CSV demand file (id;departure;origin;destination)
	URI  string `yaml:"uri,omitempty"`  // MongoDB connection string
	DB   string `yaml:"db,omitempty"`   // database name
	Col  string `yaml:"col,omitempty"`  // collection name
}

// Input specifies all data the simulator loads before the run starts.
type Input struct {
	Network string      `yaml:"network" validate:"required"` // network + lines description file
	Demand  DemandInput `yaml:"demand"`
}

// ControlStep specifies the simulated time range and step size.
type ControlStep struct {
	Start    int32   `yaml:"start"`                    // first step
	Total    int32   `yaml:"total" validate:"gt=0"`    // number of steps
	Interval float64 `yaml:"interval" validate:"gt=0"` // step duration (seconds)
}

// Control holds the core run parameters.
type Control struct {
	Step           ControlStep `yaml:"step"`
	BoardingPolicy string      `yaml:"boarding_policy,omitempty" validate:"omitempty,oneof=fifo positional"`
	RandomSeed     uint64      `yaml:"random_seed,omitempty"`
}

// Decision configures the path-choice model.
type Decision struct {
	Model            string  `yaml:"model,omitempty" validate:"omitempty,oneof=logit behavior_congestion"`
	Theta            float64 `yaml:"theta,omitempty"`             // logit parameter
	TopK             int     `yaml:"top_k,omitempty"`             // candidates kept after ranking
	CongestionWindow float64 `yaml:"congestion_window,omitempty"` // moving-average window (seconds)
}

// External holds the optional external endpoints.
type External struct {
	Redis string `yaml:"redis,omitempty"` // behavioral-index store address
	NATS  string `yaml:"nats,omitempty"`  // vehicle event publisher URL
}

// Config is the root structure of the YAML configuration file.
type Config struct {
	Input    Input    `yaml:"input"`
	Control  Control  `yaml:"control"`
	Decision Decision `yaml:"decision,omitempty"`
	External External `yaml:"external,omitempty"`
}
