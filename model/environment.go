package model

import "encoding/xml"

// Environment represents environment.xml in a results directory. The renderer
// reads it to populate the environment panel of the report.
type Environment struct {
	XMLName    xml.Name    `xml:"environment"`
	Parameters []Parameter `xml:"parameter"`
}

// Parameter is a single key/value entry of the environment document
type Parameter struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}
