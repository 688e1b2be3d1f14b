package model

import (
	"html/template"

	"github.com/Its-donkey/pricing-protocol/internal/pricing"
	"github.com/Its-donkey/pricing-protocol/internal/ui/nav"
	"github.com/Its-donkey/pricing-protocol/internal/ui/state"
)

// ColumnHeaders are the labels above every session list, in display order.
var ColumnHeaders = []string{"Contract", "End Time", "Participants", "Stake", "Quick View", "Click"}

// SubmitGroup is one label+input+button cluster of a submit bar.
type SubmitGroup struct {
	Heading     string
	Placeholder string
	Button      string
}

// SubmitBar is a row of inert submit groups rendered under a session list.
type SubmitBar struct {
	Rows [][]SubmitGroup
}

// DialogInput is an inert text input inside a dialog.
type DialogInput struct {
	Placeholder string
}

// DialogContent describes the body of one modal dialog.
type DialogContent struct {
	Title        string
	Heading      string
	Inputs       []DialogInput
	SubmitLabel  string
	Actions      []string
	BackToMain   bool
	ImagePath    string
	ImageAltText string
}

// PageVariant describes one session page. Variants are static; only the
// records and dialog state change between renders.
type PageVariant struct {
	Route     nav.Route
	Scope     pricing.Scope
	Heading   string
	QuickView DialogContent
	Vote      DialogContent
	Submit    SubmitBar
}

const nftImage = "/static/nft.svg"

// LivePage is the "Live Sessions" variant.
var LivePage = PageVariant{
	Route:   nav.Live,
	Scope:   pricing.ScopeLive,
	Heading: "Active NFTs Pricing Sessions",
	QuickView: DialogContent{
		Title:        "Search For Pricing Sessions",
		Heading:      "Lookup Sessions",
		Inputs:       []DialogInput{{Placeholder: "Submit New Session"}},
		SubmitLabel:  "Submit",
		ImagePath:    nftImage,
		ImageAltText: "NFT",
	},
	Vote: DialogContent{
		Title:        "Active Sessions",
		Inputs:       []DialogInput{{Placeholder: "Appraisal Price"}, {Placeholder: "Stake Amount"}},
		SubmitLabel:  "Submit",
		ImagePath:    nftImage,
		ImageAltText: "NFT",
	},
	Submit: SubmitBar{Rows: [][]SubmitGroup{
		{
			{Placeholder: "Find NFT", Button: "Search"},
			{Placeholder: "Submit New Session", Button: "Submit"},
		},
		{
			{Heading: "Lookup Past NFT Pricing Sessions", Placeholder: "Submit New Session", Button: "Submit"},
		},
	}},
}

// MySessionsPage is the "My Sessions" variant.
var MySessionsPage = PageVariant{
	Route:   nav.MySessions,
	Scope:   pricing.ScopeMine,
	Heading: "My Pricing Sessions",
	QuickView: DialogContent{
		Title:        "My Pricing Sessions",
		Heading:      "Look up Address",
		Inputs:       []DialogInput{{Placeholder: "NFT Address Here"}},
		SubmitLabel:  "Submit",
		Actions:      []string{"Weight", "Set Final", "Calc Base", "Issue Coin", "Harvest"},
		BackToMain:   true,
		ImagePath:    nftImage,
		ImageAltText: "NFT",
	},
	Vote: DialogContent{
		Title:        "My Pricing Sessions",
		Heading:      "Look up Address",
		Inputs:       []DialogInput{{Placeholder: "NFT Address Here"}},
		SubmitLabel:  "Submit",
		ImagePath:    nftImage,
		ImageAltText: "NFT",
	},
	Submit: SubmitBar{Rows: [][]SubmitGroup{
		{{Placeholder: "Submit New Session", Button: "Submit"}},
	}},
}

// SessionVariants lists the session pages keyed by route.
var SessionVariants = map[nav.Route]PageVariant{
	nav.Live:       LivePage,
	nav.MySessions: MySessionsPage,
}

// SocialLink is an external profile shown on the landing page.
type SocialLink struct {
	Name string
	URL  string
}

// LandingContent is rendered by the landing page.
type LandingContent struct {
	Tagline       string
	WhitepaperURL string
	DiscordURL    string
	Social        []SocialLink
}

// FormContext holds the hidden fields every dialog control posts.
type FormContext struct {
	ViewToken string
	CSRFField template.HTML
}

// DialogView is a dialog ready for rendering.
type DialogView struct {
	Name    state.Dialog
	Open    bool
	Content DialogContent
	// CloseAction is the form target that closes this dialog.
	CloseAction string
	Form        FormContext
}

// SessionRowView is one rendered session row. Its controls post to the
// dialog transitions of the owning list.
type SessionRowView struct {
	Index  int
	Record pricing.SessionRecord
	// ViewAction opens the vote dialog.
	ViewAction string
	// ActionAction opens the quick-view dialog.
	ActionAction string
	Form         FormContext
}

// SessionListView is a session list with its dialogs.
type SessionListView struct {
	Rows      []SessionRowView
	ViewToken string
	QuickView DialogView
	Vote      DialogView
	// Error is shown instead of rows when the source failed.
	Error string
}
