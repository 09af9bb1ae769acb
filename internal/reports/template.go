package reports

import (
	"fmt"

	"bizaudit-backend/internal/scoring"
)

type narrative struct {
	gap       Item
	quickWin  Item
	strategic Item
}

var homeServicesNarratives = map[scoring.Category]narrative{
	scoring.CategoryTechnology: {
		gap: Item{
			Title:       "Disconnected tools are costing you hours every week",
			Description: "Your systems don't talk to each other, so your team re-enters the same customer and job data in multiple places.",
			Impact:      "Double entry and lost context add up to missed jobs and slower invoicing.",
			CTA:         "Map every tool you pay for and cut the ones that don't integrate.",
		},
		quickWin: Item{
			Title:       "Consolidate around your CRM",
			Description: "Pick one system of record for customers and jobs and move scheduling and invoicing into it.",
			Timeframe:   "2-4 weeks",
			CTA:         "List your top three workflows and check which already live in your CRM.",
		},
		strategic: Item{
			Title:       "Adopt an all-in-one field service platform",
			Description: "A single platform for scheduling, dispatch, invoicing, and customer communication removes most manual handoffs.",
			ROI:         "Teams typically recover 5-10 admin hours per week after consolidation.",
			CTA:         "Shortlist two field service platforms and run a two-week trial.",
		},
	},
	scoring.CategoryLeads: {
		gap: Item{
			Title:       "Slow lead response is handing jobs to competitors",
			Description: "Most customers book with the first company that responds. Your current response process leaves a window your competitors are using.",
			Impact:      "Every hour of delay measurably cuts your booking rate.",
			CTA:         "Measure your average speed-to-lead this week.",
		},
		quickWin: Item{
			Title:       "Set up automatic text-back for missed calls",
			Description: "An instant text to every missed caller keeps the conversation alive until someone can pick up the phone.",
			Timeframe:   "1 week",
			CTA:         "Enable missed-call text-back in your phone system or CRM.",
		},
		strategic: Item{
			Title:       "Build an always-on lead capture funnel",
			Description: "Combine online booking, review generation, and automated follow-up so every lead gets a response within minutes around the clock.",
			ROI:         "Faster response alone typically lifts booked jobs by double digits.",
			CTA:         "Audit every lead source and define a response-time target for each.",
		},
	},
	scoring.CategoryScheduling: {
		gap: Item{
			Title:       "Manual scheduling is capping how many jobs you can run",
			Description: "Whiteboards and phone calls work until the day gets busy. Right now your dispatch depends on memory and shouting distance.",
			Impact:      "Overbooked mornings and empty afternoons both cost revenue.",
			CTA:         "Count how many schedule changes per day are handled by phone.",
		},
		quickWin: Item{
			Title:       "Move the schedule into shared software",
			Description: "A drag-and-drop board that techs see on their phones kills most of the back-and-forth.",
			Timeframe:   "2 weeks",
			CTA:         "Pilot a scheduling board with one crew.",
		},
		strategic: Item{
			Title:       "Automate dispatch and routing",
			Description: "Route optimization and capacity planning let you take more jobs with the same crews.",
			ROI:         "One extra job per crew per week pays for the software many times over.",
			CTA:         "Track drive time per job for a month and set a reduction target.",
		},
	},
	scoring.CategoryCommunication: {
		gap: Item{
			Title:       "Customers are left guessing between booking and arrival",
			Description: "No reminders or on-the-way updates means more no-shows, more \"where are you\" calls, and a weaker impression.",
			Impact:      "No-shows and gate-keeping calls eat crew time daily.",
			CTA:         "Count last month's no-shows and late-cancellations.",
		},
		quickWin: Item{
			Title:       "Turn on appointment reminders",
			Description: "Automated reminder and on-the-way texts are a solved problem in most field service tools.",
			Timeframe:   "1 week",
			CTA:         "Enable reminder texts for every booked job.",
		},
		strategic: Item{
			Title:       "Standardize the customer communication journey",
			Description: "Define what a customer hears at booking, day-before, en-route, and completion, and automate each touchpoint.",
			ROI:         "Fewer no-shows and better reviews compound into cheaper lead generation.",
			CTA:         "Write the five messages every customer should receive.",
		},
	},
	scoring.CategoryFollowUp: {
		gap: Item{
			Title:       "Finished jobs are dead ends instead of repeat revenue",
			Description: "Without post-job follow-up, review requests, and maintenance reminders, you pay to re-acquire customers you already won.",
			Impact:      "Repeat and referral work carries far better margins than cold leads.",
			CTA:         "Check what percentage of last quarter's jobs came from past customers.",
		},
		quickWin: Item{
			Title:       "Automate the post-job thank you and review ask",
			Description: "A same-day thank-you text with a review link lifts review volume immediately.",
			Timeframe:   "1-2 weeks",
			CTA:         "Set up an automated post-job message for every completed job.",
		},
		strategic: Item{
			Title:       "Build a maintenance and service agreement program",
			Description: "Recurring agreements turn one-time jobs into predictable revenue and smooth out seasonal dips.",
			ROI:         "Even a modest agreement base stabilizes cash flow year-round.",
			CTA:         "Design one service agreement offer and pitch it on every qualifying job.",
		},
	},
	scoring.CategoryOperations: {
		gap: Item{
			Title:       "You can't improve what nobody measures",
			Description: "Without job costing and per-tech KPIs, pricing and staffing decisions run on gut feel.",
			Impact:      "Unprofitable job types hide inside healthy-looking revenue.",
			CTA:         "Pick three KPIs and start tracking them this week.",
		},
		quickWin: Item{
			Title:       "Start tracking revenue per tech and callback rate",
			Description: "Two numbers, tracked weekly, surface most operational problems early.",
			Timeframe:   "1 week",
			CTA:         "Add both numbers to a weekly scorecard.",
		},
		strategic: Item{
			Title:       "Implement true job costing",
			Description: "Knowing labor, materials, and drive time per job lets you price with confidence and drop money-losing work.",
			ROI:         "Repricing the worst job types typically adds several margin points.",
			CTA:         "Cost out your ten most recent jobs end to end.",
		},
	},
	scoring.CategoryFinancial: {
		gap: Item{
			Title:       "Slow invoicing and loose collections are squeezing cash flow",
			Description: "Days between job completion and invoice, plus ad-hoc collections, turn earned revenue into receivables risk.",
			Impact:      "Cash tied up in receivables limits hiring and equipment decisions.",
			CTA:         "Measure your average days-to-invoice.",
		},
		quickWin: Item{
			Title:       "Invoice on-site before the truck leaves",
			Description: "Digital invoicing with card and ACH on the spot collapses the payment cycle.",
			Timeframe:   "2 weeks",
			CTA:         "Equip every crew to take payment at job completion.",
		},
		strategic: Item{
			Title:       "Run a monthly P&L and pricing review",
			Description: "A standing monthly review of P&L, pricing, and receivables catches drift before it becomes a crisis.",
			ROI:         "Consistent financial cadence is the cheapest margin protection available.",
			CTA:         "Book a recurring monthly financial review.",
		},
	},
}

var realEstateNarratives = map[scoring.Category]narrative{
	scoring.CategoryTechnology: {
		gap: Item{
			Title:       "Your tech stack isn't working as hard as your agents",
			Description: "Low CRM adoption and disconnected tools mean leads and past clients live in personal phones instead of team systems.",
			Impact:      "When an agent leaves, their pipeline leaves with them.",
			CTA:         "Audit which client records exist only on agents' phones.",
		},
		quickWin: Item{
			Title:       "Make the CRM the single source of truth",
			Description: "Require every lead and conversation to be logged, and make the CRM the only place transactions start.",
			Timeframe:   "2-4 weeks",
			CTA:         "Set a team rule: if it's not in the CRM, it didn't happen.",
		},
		strategic: Item{
			Title:       "Integrate CRM, transaction management, and marketing",
			Description: "A connected stack gives you pipeline visibility from first touch to closing and beyond.",
			ROI:         "Teams with full pipeline visibility convert measurably more of their database.",
			CTA:         "Map your current tools against the lead-to-close journey and fill the gaps.",
		},
	},
	scoring.CategoryLeads: {
		gap: Item{
			Title:       "Leads are going cold before anyone responds",
			Description: "Online leads expect a response in minutes. Without speed-to-lead discipline and fair distribution, expensive leads die in the pond.",
			Impact:      "You're paying portal prices for leads that never get a real conversation.",
			CTA:         "Measure average first-response time per lead source.",
		},
		quickWin: Item{
			Title:       "Automate first-touch on every new lead",
			Description: "An instant text plus automated round-robin assignment means no lead waits on a busy agent.",
			Timeframe:   "1-2 weeks",
			CTA:         "Turn on auto-response and round-robin in your CRM.",
		},
		strategic: Item{
			Title:       "Build a multi-touch conversion playbook",
			Description: "A defined 8-touch first-week cadence across call, text, and email dramatically outperforms one voicemail.",
			ROI:         "Conversion gains on leads you already pay for are pure margin.",
			CTA:         "Write the first-week touch plan and hold agents to it.",
		},
	},
	scoring.CategoryScheduling: {
		gap: Item{
			Title:       "No nurture system means your pipeline leaks",
			Description: "Most prospects transact months after first contact. Without long-term drip and lead temperature tracking, they transact with someone else.",
			Impact:      "The majority of your database's eventual deals are currently unclaimed.",
			CTA:         "Count leads in your CRM with no activity in 90 days.",
		},
		quickWin: Item{
			Title:       "Enroll every cold lead in an automated drip",
			Description: "A monthly market-update email to cold leads keeps you present until timing turns.",
			Timeframe:   "2 weeks",
			CTA:         "Set up one long-term drip campaign and enroll your cold leads.",
		},
		strategic: Item{
			Title:       "Score and stage your entire database",
			Description: "Lead scoring plus pipeline stages tell agents where the next deal actually is.",
			ROI:         "Database marketing is the lowest-cost deal source a team has.",
			CTA:         "Define hot, warm, and cold criteria and tag your database.",
		},
	},
	scoring.CategoryCommunication: {
		gap: Item{
			Title:       "Client communication lives and dies with individual agents",
			Description: "Unlogged personal-phone conversations and ad-hoc transaction updates make service quality depend on which agent answers.",
			Impact:      "Inconsistent service kills referral momentum.",
			CTA:         "Ask three recent clients how informed they felt during their transaction.",
		},
		quickWin: Item{
			Title:       "Automate transaction milestone updates",
			Description: "Clients get a message at every milestone without an agent remembering to send it.",
			Timeframe:   "2 weeks",
			CTA:         "Turn on milestone notifications in your transaction system.",
		},
		strategic: Item{
			Title:       "Standardize the client communication experience",
			Description: "Logged, CRM-based communication with defined touchpoints makes every client's experience your best agent's experience.",
			ROI:         "Consistent experience converts directly into reviews and referrals.",
			CTA:         "Document the client journey and assign an owner to each touchpoint.",
		},
	},
	scoring.CategoryFollowUp: {
		gap: Item{
			Title:       "Past clients are your cheapest deals and nobody owns them",
			Description: "Without post-close nurture, anniversary touches, and a referral process, your sphere transacts without thinking of you.",
			Impact:      "Repeat and referral business costs a fraction of portal leads.",
			CTA:         "Check how many of last year's closings came from past clients.",
		},
		quickWin: Item{
			Title:       "Launch a post-close follow-up sequence",
			Description: "Automated touches at one week, one month, and one year keep you the obvious choice.",
			Timeframe:   "2 weeks",
			CTA:         "Enroll every new closing in a post-close sequence.",
		},
		strategic: Item{
			Title:       "Systematize referral generation",
			Description: "Automated asks at the moments of peak goodwill turn happy clients into a repeatable channel.",
			ROI:         "A working referral engine compounds year over year.",
			CTA:         "Pick two milestones per transaction where the referral ask goes out automatically.",
		},
	},
	scoring.CategoryOperations: {
		gap: Item{
			Title:       "Agent performance is invisible until it's a problem",
			Description: "Without activity tracking and a standardized transaction workflow, coaching happens after deals are lost.",
			Impact:      "Underperformance hides for quarters in a commission business.",
			CTA:         "Review per-agent activity numbers for last month.",
		},
		quickWin: Item{
			Title:       "Stand up a weekly per-agent scorecard",
			Description: "Calls, appointments, and pipeline movement per agent, reviewed weekly, change behavior fast.",
			Timeframe:   "1 week",
			CTA:         "Build the scorecard from CRM data you already have.",
		},
		strategic: Item{
			Title:       "Standardize transaction workflow and onboarding",
			Description: "Checklist-driven transactions and a documented onboarding program make growth survivable.",
			ROI:         "Standardization is what lets a team add agents without adding chaos.",
			CTA:         "Document your transaction checklist and train every agent on it.",
		},
	},
	scoring.CategoryFinancial: {
		gap: Item{
			Title:       "Team finances are a black box between closings",
			Description: "Without team P&L, tracked marketing spend, and systematic commission disbursement, profitability is a year-end surprise.",
			Impact:      "You can't tell which lead sources or agents actually make money.",
			CTA:         "Pull together last quarter's true team P&L.",
		},
		quickWin: Item{
			Title:       "Track marketing spend per channel",
			Description: "Cost per closed deal by channel tells you where the next dollar should go.",
			Timeframe:   "2 weeks",
			CTA:         "List every channel you spend on and its closings last quarter.",
		},
		strategic: Item{
			Title:       "Run a monthly team financial review",
			Description: "A standing review of P&L, cost per acquisition, and agent profitability turns the business from commission collection into an asset.",
			ROI:         "Knowing your numbers is what makes scaling decisions safe.",
			CTA:         "Book a recurring monthly financial review with your bookkeeper.",
		},
	},
}

// genericNarrative covers any category without authored copy so the template
// report never comes back with an empty section.
var genericNarrative = narrative{
	gap: Item{
		Title:       "This area needs a defined process",
		Description: "Scores here indicate work is handled ad hoc rather than through a repeatable system.",
		Impact:      "Ad hoc processes don't survive growth or staff changes.",
		CTA:         "Document how this work happens today and where it breaks.",
	},
	quickWin: Item{
		Title:       "Write down the current process",
		Description: "A one-page description of how this area works today is the fastest path to improving it.",
		Timeframe:   "1 week",
		CTA:         "Draft the one-pager and review it with your team.",
	},
	strategic: Item{
		Title:       "Systematize and automate this area",
		Description: "Move the documented process into software so it runs the same way every time.",
		ROI:         "Systemized processes free owner time for growth work.",
		CTA:         "Evaluate tools that can take this work off your plate.",
	},
}

// Template builds a deterministic report from scores alone, used when the
// generated report is skipped or unavailable. The three weakest categories
// drive the content.
func Template(vertical scoring.Vertical, businessName string, scores scoring.Scores, weights scoring.Weights) Content {
	narratives := homeServicesNarratives
	if vertical == scoring.VerticalRealEstate {
		narratives = realEstateNarratives
	}

	ranked := scoring.RankedCategories(scores, weights)
	weakest := ranked
	if len(weakest) > 3 {
		weakest = weakest[:3]
	}

	content := Content{
		ExecutiveSummary: fmt.Sprintf(
			"%s scores %d/100 overall (%s). The biggest opportunities are in %s, %s, and %s; the recommendations below focus there.",
			businessName, scores.Overall, scoring.ScoreLabel(scores.Overall),
			weakest[0].Category.Title(), weakest[1].Category.Title(), weakest[2].Category.Title(),
		),
	}

	priorities := []string{PriorityHigh, PriorityMedium, PriorityMedium}
	for i, cs := range weakest {
		n, ok := narratives[cs.Category]
		if !ok {
			n = genericNarrative
		}
		gap, quickWin, strategic := n.gap, n.quickWin, n.strategic
		gap.Priority = priorities[i]
		quickWin.Priority = priorities[i]
		strategic.Priority = priorities[i]
		content.Gaps = append(content.Gaps, gap)
		content.QuickWins = append(content.QuickWins, quickWin)
		content.StrategicRecommendations = append(content.StrategicRecommendations, strategic)
	}

	return content
}
