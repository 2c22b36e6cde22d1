// Package swagger embeds the OpenAPI document of the directory API.
package swagger

import _ "embed"

// DocPath is where the document is served.
const DocPath = "/api-docs/directory.swagger.json"

//go:embed directory.swagger.json
var Doc []byte
