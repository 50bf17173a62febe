package places

// searchTextRequest is the body of POST /places:searchText.
type searchTextRequest struct {
	TextQuery string `json:"textQuery"`
	PageToken string `json:"pageToken,omitempty"`
}

type localizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type placeResponse struct {
	ID               string         `json:"id"`
	DisplayName      *localizedText `json:"displayName,omitempty"`
	FormattedAddress string         `json:"formattedAddress,omitempty"`
	Rating           *float64       `json:"rating,omitempty"`
	UserRatingCount  *int           `json:"userRatingCount,omitempty"`
	Reviews          []reviewBody   `json:"reviews,omitempty"`
}

type searchTextResponse struct {
	Places        []placeResponse `json:"places"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

type authorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri,omitempty"`
}

type reviewBody struct {
	Name              string             `json:"name,omitempty"`
	Rating            *float64           `json:"rating,omitempty"`
	PublishTime       string             `json:"publishTime,omitempty"`
	Text              *localizedText     `json:"text,omitempty"`
	AuthorAttribution *authorAttribution `json:"authorAttribution,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}
