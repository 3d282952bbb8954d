package mutations

const (
	UpdateLine   = "update_line"
	CompleteLine = "complete_line"
	SetRetention = "set_retention"
	SetAdvances  = "set_advances"
	SetDate      = "set_date"
)

var registry = map[string]MutationHandler{
	UpdateLine:   &UpdateLineHandler{},
	CompleteLine: &CompleteLineHandler{},
	SetRetention: &SetRetentionHandler{},
	SetAdvances:  &SetAdvancesHandler{},
	SetDate:      &SetDateHandler{},
}

func Get(name string) (MutationHandler, bool) {
	h, ok := registry[name]
	return h, ok
}
