package actions

const (
	obsBaseUrl   = "obsidian://"
	openAction   = "open"
	createAction = "new"
	dailyAction  = "daily"

	ObsOpenUrl   = obsBaseUrl + openAction
	ObsCreateUrl = obsBaseUrl + createAction
	OnsDailyUrl  = obsBaseUrl + dailyAction
)
