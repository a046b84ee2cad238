package app

// EvaluateService is what the transports need from the application layer.
type EvaluateService interface {
	Evaluate(req EvaluateRequest) (*Evaluation, error)
	ExportGraph(modelXML string) (string, *ModelInfo, error)
}
