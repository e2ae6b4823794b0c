package palette

// builtin is the process-wide seed registry. It is built once at package
// initialization and never changes.
var builtin = MustNewRegistry(builtinTemplates()...)

func builtinTemplates() []NodeTemplate {
	return []NodeTemplate{
		{
			ID:           "generic_process",
			Label:        "Generic Process",
			Description:  Ptr("A standard processing node with 1 input and 1 output."),
			Inputs:       1,
			Outputs:      1,
			DefaultLabel: Ptr("Process Node"),
			Params: []Param{
				TextParam("Process Name", "process_1"),
				NumberParam("Timeout (ms)", 1000),
			},
		},
		{
			ID:           "data_source",
			Label:        "Data Source",
			Description:  Ptr("Start node for fetching data."),
			Inputs:       0,
			Outputs:      1,
			DefaultLabel: Ptr("Data Source"),
			Params: []Param{
				TextParam("Connection String", "http://localhost:8080"),
				TextParam("Auth Token", ""),
			},
		},
		{
			ID:           "data_sink",
			Label:        "Data Sink",
			Description:  Ptr("End node for saving/outputting data."),
			Inputs:       1,
			Outputs:      0,
			DefaultLabel: Ptr("Output"),
			Params: []Param{
				TextParam("File Path", "/tmp/output.json"),
				SelectParam("Format", "json", "json", "csv", "xml"),
			},
		},
		{
			ID:           "filter",
			Label:        "Filter",
			Description:  Ptr("Filters data based on a condition."),
			Inputs:       1,
			Outputs:      1,
			DefaultLabel: Ptr("Filter"),
			Params: []Param{
				TextParam("Field", "status"),
				SelectParam("Condition", "equals", "equals", "contains", "greater_than"),
				TextParam("Value", "active"),
			},
		},
	}
}

// Builtin returns the seed registry.
func Builtin() *Registry { return builtin }

// ListTemplates returns the seed templates in declaration order.
func ListTemplates() []NodeTemplate { return builtin.List() }

// GetTemplate looks up a seed template by id.
func GetTemplate(id string) (NodeTemplate, bool) { return builtin.Get(id) }
