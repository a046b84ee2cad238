// Package dmn holds the element tree of a DMN document and the XML parser
// that produces it. Only the parts the decision engine reads are modeled.
package dmn

type Definitions struct {
	ID        string     `xml:"id,attr"`
	Name      string     `xml:"name,attr"`
	Namespace string     `xml:"namespace,attr"`
	Decisions []Decision `xml:"decision"`
}

type Decision struct {
	ID                     string                   `xml:"id,attr"`
	Name                   string                   `xml:"name,attr"`
	DecisionTable          *DecisionTable           `xml:"decisionTable"`
	InformationRequirement []InformationRequirement `xml:"informationRequirement"`
}

// DecisionTable is the decision logic of a Decision. HitPolicy is kept as
// the raw attribute text; normalization happens in the decision package.
type DecisionTable struct {
	ID        string   `xml:"id,attr"`
	HitPolicy string   `xml:"hitPolicy,attr"`
	Inputs    []Input  `xml:"input"`
	Outputs   []Output `xml:"output"`
	Rules     []Rule   `xml:"rule"`
}

type Input struct {
	ID              string           `xml:"id,attr"`
	Label           string           `xml:"label,attr"`
	InputExpression *InputExpression `xml:"inputExpression"`
}

type InputExpression struct {
	ID      string `xml:"id,attr"`
	TypeRef string `xml:"typeRef,attr"`
	Text    string `xml:"text"`
}

type Output struct {
	ID      string `xml:"id,attr"`
	Label   string `xml:"label,attr"`
	Name    string `xml:"name,attr"`
	TypeRef string `xml:"typeRef,attr"`
}

type Rule struct {
	ID          string  `xml:"id,attr"`
	InputEntry  []Entry `xml:"inputEntry"`
	OutputEntry []Entry `xml:"outputEntry"`
}

type Entry struct {
	ID   string `xml:"id,attr"`
	Text string `xml:"text"`
}

type InformationRequirement struct {
	ID               string     `xml:"id,attr"`
	RequiredDecision *Reference `xml:"requiredDecision"`
	RequiredInput    *Reference `xml:"requiredInput"`
}

type Reference struct {
	Href string `xml:"href,attr"`
}
