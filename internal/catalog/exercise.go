package catalog

// Exercise is a single entry of the read-only exercise library.
type Exercise struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	SourceID         string   `json:"source_id"`
	Force            *string  `json:"force,omitempty"`
	Level            string   `json:"level"`
	Mechanic         *string  `json:"mechanic,omitempty"`
	Category         string   `json:"category"`
	Equipment        *string  `json:"equipment,omitempty"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
}

type MuscleGroup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Equipment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
