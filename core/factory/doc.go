// Package factory is a small generic registry that builds pluggable modules
// (metrics sinks, stores) from configuration. A module is described by a type
// name and a map of raw settings; the registered factory decodes the settings
// into its own typed struct with Decode.
//
//	reg := factory.NewRegistry[metrics.PlanSink]()
//	_ = reg.Register("nop", func(map[string]any) (metrics.PlanSink, error) {
//	    return metrics.NopSink{}, nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "nop"})
package factory
