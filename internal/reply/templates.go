package reply

// Reply text fragments. Each branch concatenates these with at most two
// interpolated values.
const (
	connectorFailingTemplate = "Sorry for the inconvenience you faced with our%s connector, "
	pricingApologyTemplate   = "Sorry for the inconvenience you faced with our pricing model, "
	supportContactTemplate   = "Please reach out to our customer support at %s for a resolution."

	positiveAckTemplate       = "Glad to hear you enjoyed our product, check out new connectors coming soon "
	requestConnectorsTemplate = ", request for connectors here "

	pitchTemplate          = "We offer the industry's best selection of fully managed connectors, "
	connectorPitchTemplate = "check out our %s connector "
	pricingPitchTemplate   = "check out our pricing "
	genericPitchTemplate   = "our pipelines automatically and continuously update, freeing you up to focus on game-changing insights instead of ETL. Check out our product "
)

// DefaultSupportEmail is the contact address used in complaint replies.
const DefaultSupportEmail = "support@fivetran.com"

// Links holds the long URLs that replies point to.
type Links struct {
	ComingSoon       string
	RequestConnector string
	Pricing          string
	Product          string
}

// DefaultLinks returns the product links used by the bot.
func DefaultLinks() Links {
	return Links{
		ComingSoon:       "https://www.fivetran.com/connectors?status=soon",
		RequestConnector: "https://support.fivetran.com/hc/en-us/community/topics/360001909373-Feature-Requests",
		Pricing:          "https://www.fivetran.com/pricing",
		Product:          "https://www.fivetran.com/",
	}
}

// withDefaults fills empty links from DefaultLinks.
func (l Links) withDefaults() Links {
	d := DefaultLinks()
	if l.ComingSoon == "" {
		l.ComingSoon = d.ComingSoon
	}
	if l.RequestConnector == "" {
		l.RequestConnector = d.RequestConnector
	}
	if l.Pricing == "" {
		l.Pricing = d.Pricing
	}
	if l.Product == "" {
		l.Product = d.Product
	}
	return l
}
