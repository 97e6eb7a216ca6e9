package actions

// ActionParameter is a user input rendered by the blink client.
type ActionParameter struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// LinkedAction is a button of the blink, posting to Href.
type LinkedAction struct {
	Href       string            `json:"href"`
	Label      string            `json:"label"`
	Parameters []ActionParameter `json:"parameters,omitempty"`
}

type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

// ActionGetResponse - Body of every metadata (GET/OPTIONS) response
type ActionGetResponse struct {
	Type        string       `json:"type"`
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Label       string       `json:"label"`
	Disabled    bool         `json:"disabled,omitempty"`
	Links       *ActionLinks `json:"links,omitempty"`
}

// ActionPostRequest - Body the wallet posts
type ActionPostRequest struct {
	Account string `json:"account"`
}

// ActionPostResponse - Unsigned transaction returned to the wallet
type ActionPostResponse struct {
	Type        string `json:"type"`
	Transaction string `json:"transaction"`
	Message     string `json:"message,omitempty"`
}

// ActionRule maps a website path onto the action API.
type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}

// ActionsJSON - Body of /actions.json
type ActionsJSON struct {
	Rules []ActionRule `json:"rules"`
}

// ErrorResponse - JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}
