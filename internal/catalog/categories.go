package catalog

// Categories are the choices of the custom.custom_category metafield.
var Categories = []string{
	"All",
	"Latest",
	"Best Sellers",
	"Express",
	"Super Express",
	"Seasonal",
	"Themes",
	"Events & Charities",
	"Brands",
	"Eco",
	"Biscuits, Cakes & Pies",
	"Cereals & Cereal Bars",
	"Chewing Gum",
	"Chocolate",
	"Crisps",
	"Dried Fruits",
	"Drinks",
	"Flapjacks",
	"Honey",
	"Jams, Marmalades & Spreads",
	"Lollipops",
	"Popcorn",
	"Pretzels",
	"Protein",
	"Savoury Snacks",
	"Soup",
	"Sprinkles",
	"Sweets",
	"Mints",
	"Vegan",
	"Packaging",
}

// Subcategories are the choices of the subcategory metafields, grouped by category.
// Order matters: a label's index decides which metafield it is stored in.
var Subcategories = []string{
	// Seasonal
	"Black Friday",
	"Christmas",
	"Easter",
	"Eid",
	"Halloween",
	"New Year",
	"Ramadan",
	"Summer",
	"Valentines Day",
	// Themes
	"Achievement",
	"Anniversary",
	"Appreciation",
	"Awards",
	"Back To School",
	"British",
	"Carnival",
	"Celebrations",
	"Community",
	"Countdown to Launch",
	"Customers",
	"Diversity & Inclusion",
	"Empowerment",
	"Football",
	"Heroes",
	"Ideas",
	"Loyalty",
	"Meet The Team",
	"Mental Health",
	"Milestones",
	"Product Launch",
	"Referral Rewards",
	"Sale",
	"Saver Offers",
	"Staff",
	"Success",
	"Support",
	"Sustainability",
	"Thank You",
	"University",
	"Volunteer",
	"Wellbeing",
	"We Miss You",
	// Events & Charities
	"Cancer Research",
	"Careers Week",
	"Mental Health Awareness",
	"Movember",
	"Pride",
	"Volunteers Week",
	"Wimbledon",
	"World Bee Day",
	"World Blood Donor Day",
	"World Cup - Football",
	"World Cup - Rugby",
	// Brands
	"Cadbury",
	"Haribo",
	"Heinz",
	"Jordans",
	"Kelloggs",
	"Mars",
	"McVities",
	"Nature Valley",
	"Nestle",
	"Swizzels",
	"Walkers",
	// Biscuits, Cakes & Pies
	"Biscuits - Box",
	"Biscuits - Single",
	"Cake - Box",
	"Cake Bars - Single",
	"Cakes - Round",
	"Cakes - Traybake",
	"Cupcakes - Box",
	"Cupcakes - Single",
	"Pies - Box",
	"Pies - Single",
	// Cereals & Cereal Bars
	"Breakfast Cereals",
	"Cereal Bars",
	"Porridge",
	// Chewing Gum
	"Mint",
	// Chocolate
	"Balls",
	"Bars",
	"Coins",
	"Hearts",
	"Neapolitans",
	"Single Shapes",
	"Truffles",
	// Dried Fruits
	"Apricots",
	"Bananas",
	"Dates",
	// Drinks
	"Coffee",
	"Fizzy",
	"Hot Chocolate",
	"Still",
	"Tea",
	"Water",
	// Jams, Marmalades & Spreads
	"Marmalade",
	"Marmite",
	"Nutella",
	"Jams",
	// Lollipops
	"Chocolate",
	"Sugar",
	// Popcorn
	"Microwave",
	"Popped",
	// Protein
	"Nuts",
	// Savoury Snacks
	"Bags",
	"Packs",
	// Sprinkles
	"Shapes",
	"Vermicelli",
	// Sweets
	"Boiled/Compressed",
	"Jellies",
	// Vegan
	"Sweets",
	"Treats",
	// Packaging
	"Bottle",
	"Card",
	"Card Box - A Box",
	"Card Box - Rectangle",
	"Card Box - Shape",
	"Card Box - Square",
	"Eco",
	"Header Card",
	"Jar",
	"Label",
	"Nets",
	"Organza Bag",
	"Popcorn Box",
	"Plastic Box",
	"Tin",
	"Tub",
	"Wrap",
}

// Subcategory2FirstItem is the first label stored in custom.subcategory_2.
const Subcategory2FirstItem = "Sweets"

// CategorySubcategories lists which subcategories the editor offers under each category.
var CategorySubcategories = map[string][]string{
	"Seasonal": {
		"Black Friday",
		"Christmas",
		"Easter",
		"Eid",
		"Halloween",
		"New Year",
		"Ramadan",
		"Summer",
		"Valentines Day",
	},
	"Themes": {
		"Achievement",
		"Anniversary",
		"Appreciation",
		"Awards",
		"Back To School",
		"British",
		"Carnival",
		"Celebrations",
		"Community",
		"Countdown to Launch",
		"Customers",
		"Diversity & Inclusion",
		"Empowerment",
		"Football",
		"Heroes",
		"Ideas",
		"Loyalty",
		"Meet The Team",
		"Mental Health",
		"Milestones",
		"Product Launch",
		"Referral Rewards",
		"Sale",
		"Saver Offers",
		"Staff",
		"Success",
		"Support",
		"Sustainability",
		"Thank You",
		"University",
		"Volunteer",
		"Wellbeing",
		"We Miss You",
	},
	"Events & Charities": {
		"Cancer Research",
		"Careers Week",
		"Mental Health Awareness",
		"Movember",
		"Pride",
		"Volunteers Week",
		"Wimbledon",
		"World Bee Day",
		"World Blood Donor Day",
		"World Cup - Football",
		"World Cup - Rugby",
	},
	"Brands": {
		"Cadbury",
		"Haribo",
		"Heinz",
		"Jordans",
		"Kelloggs",
		"Mars",
		"McVities",
		"Nature Valley",
		"Nestle",
		"Swizzels",
		"Walkers",
	},
	"Biscuits, Cakes & Pies": {
		"Biscuits - Box",
		"Biscuits - Single",
		"Cake - Box",
		"Cake Bars - Single",
		"Cakes - Round",
		"Cakes - Traybake",
		"Cupcakes - Box",
		"Cupcakes - Single",
		"Pies - Box",
		"Pies - Single",
	},
	"Cereals & Cereal Bars": {
		"Breakfast Cereals",
		"Cereal Bars",
		"Porridge",
	},
	"Chewing Gum": {
		"Mint",
	},
	"Chocolate": {
		"Balls",
		"Bars",
		"Coins",
		"Hearts",
		"Neapolitans",
		"Single Shapes",
		"Truffles",
	},
	"Dried Fruits": {
		"Apricots",
		"Bananas",
		"Dates",
	},
	"Drinks": {
		"Coffee",
		"Fizzy",
		"Hot Chocolate",
		"Still",
		"Tea",
		"Water",
	},
	"Jams, Marmalades & Spreads": {
		"Marmalade",
		"Marmite",
		"Nutella",
		"Jams",
	},
	"Lollipops": {
		"Chocolate",
		"Sugar",
	},
	"Popcorn": {
		"Microwave",
		"Popped",
	},
	"Protein": {
		"Bars",
		"Nuts",
	},
	"Savoury Snacks": {
		"Bags",
		"Bars",
		"Packs",
	},
	"Sprinkles": {
		"Shapes",
		"Vermicelli",
	},
	"Sweets": {
		"Boiled/Compressed",
		"Jellies",
	},
	"Vegan": {
		"Sweets",
		"Treats",
	},
	"Packaging": {
		"Bags",
		"Bottle",
		"Card",
		"Card Box - A Box",
		"Card Box - Rectangle",
		"Card Box - Shape",
		"Card Box - Square",
		"Eco",
		"Header Card",
		"Jar",
		"Label",
		"Nets",
		"Organza Bag",
		"Popcorn Box",
		"Plastic Box",
		"Tin",
		"Tub",
		"Wrap",
	},
}
