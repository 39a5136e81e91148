package synthesis

import (
	"fmt"
	"strings"
	"time"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// Timestamp layout used in every rendered report.
const timestampLayout = "2006-01-02 15:04:05"

// Confidence levels attached to a root-cause analysis.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
)

// Recommendation priorities. High actions render before Medium ones.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
)

// causeRule maps a trigger set to one root cause and its contributing factor.
// A rule fires when any trigger occurs in the lowercased findings text.
type causeRule struct {
	triggers []string
	cause    string
	factor   string
}

// Cause rules applied to knowledge-base findings, in evaluation order.
var knowledgeCauses = []causeRule{
	{
		triggers: []string{"delivery", "failed", "not delivered", "bounce"},
		cause:    "Message delivery failure",
		factor:   "Delivery issues identified in knowledge base",
	},
	{
		triggers: []string{"rate limit", "throttle", "quota", "limit exceeded"},
		cause:    "API rate limiting",
		factor:   "Rate limiting constraints mentioned in documentation",
	},
	{
		triggers: []string{"template", "approval", "rejected", "not approved"},
		cause:    "Template approval issues",
		factor:   "Template-related problems found in knowledge base",
	},
	{
		triggers: []string{"webhook", "callback", "status update"},
		cause:    "Webhook/status update issues",
		factor:   "Webhook configuration problems identified",
	},
	{
		triggers: []string{"phone number", "invalid", "format", "country code"},
		cause:    "Phone number formatting issues",
		factor:   "Phone number validation problems documented",
	},
}

// Cause rules applied to execution results (campaign data and logs).
var executionCauses = []causeRule{
	{
		triggers: []string{"error", "failed", "exception", "timeout"},
		cause:    "Technical execution errors",
		factor:   "Error conditions detected in campaign logs",
	},
	{
		triggers: []string{"status: failed", "delivery_status: failed"},
		cause:    "Campaign delivery failure",
		factor:   "Failed delivery status in campaign data",
	},
	{
		triggers: []string{"no recipients", "empty audience", "zero users"},
		cause:    "Audience targeting issues",
		factor:   "No valid recipients found in campaign execution",
	},
	{
		triggers: []string{"configuration", "setup", "missing parameter"},
		cause:    "Campaign configuration issues",
		factor:   "Configuration problems identified in execution data",
	},
}

// recRule maps a trigger set to a recommendation record plus optional
// immediate action and preventive measure. The trigger sets here are
// narrower than the cause tables on purpose: a finding can name a root
// cause without warranting a canned action.
type recRule struct {
	triggers   []string
	rec        Recommendation
	immediate  string
	preventive string
}

var knowledgeRecs = []recRule{
	{
		triggers: []string{"delivery", "failed", "not delivered"},
		rec: Recommendation{
			Category: "Delivery Issues",
			Action:   "Check WhatsApp Business API status and verify phone number validity",
			Priority: PriorityHigh,
			Details:  "Verify recipient phone numbers are in correct international format and WhatsApp-enabled",
		},
		immediate: "Validate phone number formats and WhatsApp availability",
	},
	{
		triggers: []string{"rate limit", "throttle", "quota"},
		rec: Recommendation{
			Category: "Rate Limiting",
			Action:   "Implement rate limiting controls and review API usage patterns",
			Priority: PriorityHigh,
			Details:  "Check current API usage against limits and implement exponential backoff",
		},
		preventive: "Set up monitoring for API rate limit thresholds",
	},
	{
		triggers: []string{"template", "approval", "rejected"},
		rec: Recommendation{
			Category: "Template Issues",
			Action:   "Review and resubmit template for approval",
			Priority: PriorityMedium,
			Details:  "Ensure template follows WhatsApp Business API guidelines and policies",
		},
		immediate: "Check template approval status in WhatsApp Business Manager",
	},
	{
		triggers: []string{"webhook", "callback", "status"},
		rec: Recommendation{
			Category: "Webhook Configuration",
			Action:   "Verify webhook endpoint configuration and SSL certificate",
			Priority: PriorityMedium,
			Details:  "Ensure webhook URL is accessible and returns proper HTTP status codes",
		},
	},
}

var executionRecs = []recRule{
	{
		triggers: []string{"error", "failed", "exception"},
		rec: Recommendation{
			Category: "Error Resolution",
			Action:   "Review error logs and implement proper error handling",
			Priority: PriorityHigh,
			Details:  "Analyze specific error messages and implement retry mechanisms",
		},
		immediate: "Review campaign error logs for specific failure patterns",
	},
	{
		triggers: []string{"configuration", "setup", "missing"},
		rec: Recommendation{
			Category: "Configuration",
			Action:   "Review campaign configuration and required parameters",
			Priority: PriorityMedium,
			Details:  "Verify all required fields are properly configured",
		},
		preventive: "Implement configuration validation checks",
	},
	{
		triggers: []string{"no recipients", "empty audience", "zero users"},
		rec: Recommendation{
			Category: "Audience Targeting",
			Action:   "Review audience segmentation and targeting criteria",
			Priority: PriorityHigh,
			Details:  "Verify audience filters and ensure valid recipients exist",
		},
		immediate: "Check audience size and targeting parameters",
	},
}

// Engine derives root causes, recommendations and full solution reports from
// investigation findings. It is stateless apart from the injected clock, so a
// single value may be shared across goroutines.
type Engine struct {
	// Clock supplies report timestamps. Nil means time.Now.
	Clock func() time.Time
}

// NewEngine returns an Engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// Analysis is the outcome of a root-cause pass over investigation findings.
type Analysis struct {
	Causes     []string
	Factors    []string
	Confidence string
	Timestamp  time.Time

	// HasInput records whether any findings text was supplied. It selects
	// between the insufficient-data and no-clear-cause renderings when no
	// cause matched.
	HasInput bool
}

// AnalyzeRootCause matches knowledge findings and execution results against
// the cause tables. Causes and factors keep table order: knowledge rules
// first, then execution rules.
func (e *Engine) AnalyzeRootCause(knowledge, execution string) *Analysis {
	a := &Analysis{Timestamp: e.now()}

	if strings.TrimSpace(knowledge) != "" {
		a.HasInput = true
		lower := strings.ToLower(knowledge)
		for _, r := range knowledgeCauses {
			if containsAny(lower, r.triggers) {
				a.Causes = append(a.Causes, r.cause)
				a.Factors = append(a.Factors, r.factor)
			}
		}
	}

	if strings.TrimSpace(execution) != "" {
		a.HasInput = true
		lower := strings.ToLower(execution)
		for _, r := range executionCauses {
			if containsAny(lower, r.triggers) {
				a.Causes = append(a.Causes, r.cause)
				a.Factors = append(a.Factors, r.factor)
			}
		}
	}

	a.Confidence = ConfidenceMedium
	if len(a.Causes) >= 2 {
		a.Confidence = ConfidenceHigh
	}

	return a
}

const insufficientDataAnalysis = `**ROOT CAUSE ANALYSIS:**

**Status:** Insufficient data for comprehensive analysis

**Primary Issue:** Unable to determine root cause due to limited information available.

**Analysis Summary:**
- No significant findings from knowledge base search
- No detailed execution data available
- Requires additional investigation or user input to proceed

**Recommendation:** Gather more specific information about the campaign issue, including error messages, campaign IDs, or specific symptoms.`

const noClearCauseAnalysis = `**ROOT CAUSE ANALYSIS:**

**Status:** No clear root cause identified

**Analysis Summary:**
- Information gathered but no specific issues pattern-matched
- May require manual review of findings
- Could be a novel issue not covered in existing knowledge base

**Available Information:**
- Knowledge findings available but no clear issues identified
- Execution data reviewed but no obvious problems detected`

// Render produces the markdown section for the analysis. Empty analyses
// render one of two fixed variants depending on whether any findings were
// supplied at all.
func (a *Analysis) Render() string {
	if len(a.Causes) == 0 {
		if !a.HasInput {
			return insufficientDataAnalysis
		}
		return noClearCauseAnalysis
	}

	var b strings.Builder
	b.WriteString("**ROOT CAUSE ANALYSIS:**\n\n")
	fmt.Fprintf(&b, "**Primary Root Causes Identified:** %d\n\n", len(a.Causes))
	for i, cause := range a.Causes {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, cause)
	}
	b.WriteString("\n**Contributing Factors:**\n")
	for _, factor := range a.Factors {
		fmt.Fprintf(&b, "• %s\n", factor)
	}
	fmt.Fprintf(&b, "\n**Analysis Confidence:** %s", a.Confidence)
	fmt.Fprintf(&b, "\n**Analysis Timestamp:** %s", a.Timestamp.Format(timestampLayout))
	return b.String()
}

// Recommendation is one actionable item in an ActionPlan.
type Recommendation struct {
	Category string
	Action   string
	Priority string
	Details  string
}

// ActionPlan groups recommendations with their immediate actions and
// preventive measures.
type ActionPlan struct {
	Recommendations    []Recommendation
	ImmediateActions   []string
	PreventiveMeasures []string
	Timestamp          time.Time
}

// Recommendations matches findings against the recommendation tables and
// returns the resulting plan. Slice order follows the tables: knowledge
// rules first, then execution rules.
func (e *Engine) Recommendations(knowledge, execution string) *ActionPlan {
	p := &ActionPlan{Timestamp: e.now()}

	apply := func(lower string, rules []recRule) {
		for _, r := range rules {
			if !containsAny(lower, r.triggers) {
				continue
			}
			p.Recommendations = append(p.Recommendations, r.rec)
			if r.immediate != "" {
				p.ImmediateActions = append(p.ImmediateActions, r.immediate)
			}
			if r.preventive != "" {
				p.PreventiveMeasures = append(p.PreventiveMeasures, r.preventive)
			}
		}
	}

	if strings.TrimSpace(knowledge) != "" {
		apply(strings.ToLower(knowledge), knowledgeRecs)
	}
	if strings.TrimSpace(execution) != "" {
		apply(strings.ToLower(execution), executionRecs)
	}

	return p
}

const generalGuidanceRecommendations = `**RECOMMENDATIONS:**

**Status:** No specific recommendations available

**General Guidance:**
- Review the original issue description for more specific details
- Check MoEngage documentation for WhatsApp campaign best practices
- Contact support if the issue persists with detailed error information

**Next Steps:**
1. Gather more specific error messages or symptoms
2. Provide campaign ID or specific configuration details
3. Check WhatsApp Business API status and account health`

// Render produces the markdown section for the plan: High priority actions,
// Medium priority actions, immediate actions, preventive measures, then
// totals. Numbering restarts per priority group. An empty plan renders the
// general-guidance variant.
func (p *ActionPlan) Render() string {
	if len(p.Recommendations) == 0 {
		return generalGuidanceRecommendations
	}

	var high, medium []Recommendation
	for _, r := range p.Recommendations {
		switch r.Priority {
		case PriorityHigh:
			high = append(high, r)
		case PriorityMedium:
			medium = append(medium, r)
		}
	}

	var b strings.Builder
	b.WriteString("**RECOMMENDATIONS:**\n\n")

	writeGroup := func(heading string, recs []Recommendation) {
		if len(recs) == 0 {
			return
		}
		b.WriteString(heading + "\n")
		for i, r := range recs {
			fmt.Fprintf(&b, "%d. **%s:** %s\n", i+1, r.Category, r.Action)
			fmt.Fprintf(&b, "   Details: %s\n\n", r.Details)
		}
	}
	writeGroup("**🔴 HIGH PRIORITY ACTIONS:**", high)
	writeGroup("**🟡 MEDIUM PRIORITY ACTIONS:**", medium)

	if len(p.ImmediateActions) > 0 {
		b.WriteString("**⚡ IMMEDIATE ACTIONS:**\n")
		for _, a := range p.ImmediateActions {
			fmt.Fprintf(&b, "• %s\n", a)
		}
		b.WriteString("\n")
	}
	if len(p.PreventiveMeasures) > 0 {
		b.WriteString("**🛡️ PREVENTIVE MEASURES:**\n")
		for _, m := range p.PreventiveMeasures {
			fmt.Fprintf(&b, "• %s\n", m)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Total Recommendations:** %d\n", len(p.Recommendations))
	fmt.Fprintf(&b, "**Generated:** %s", p.Timestamp.Format(timestampLayout))
	return b.String()
}

// FinalSolution assembles the full investigation report from session state:
// the original query, investigation phase, knowledge and technical sections,
// root-cause analysis, recommendations and next steps. State keys read are
// user_query, knowledge_findings, execution_results and phase; absent keys
// fall back to placeholder text, so a partially investigated session still
// yields a coherent report.
func (e *Engine) FinalSolution(state core.StateReader) string {
	query := "No query provided"
	if v, ok := state.GetState(core.StateKeyUserQuery); ok {
		query, _ = v.(string)
	}
	phase := "unknown"
	if v, ok := state.GetState(core.StateKeyPhase); ok {
		phase, _ = v.(string)
	}
	knowledge := core.StateString(state, core.StateKeyKnowledgeFindings)
	execution := core.StateString(state, core.StateKeyExecutionResults)

	analysis := e.AnalyzeRootCause(knowledge, execution)
	plan := e.Recommendations(knowledge, execution)

	var b strings.Builder
	b.WriteString("# 🔍 MoEngage WhatsApp Campaign Support Analysis\n\n")
	b.WriteString("## 📋 Investigation Summary\n\n")
	fmt.Fprintf(&b, "**Original Query:** %s\n\n", query)
	fmt.Fprintf(&b, "**Investigation Phase:** %s\n\n", phase)
	fmt.Fprintf(&b, "**Analysis Timestamp:** %s\n\n", e.now().Format(timestampLayout))
	b.WriteString("---\n\n")

	b.WriteString("## 🔎 Knowledge Base Findings\n\n")
	if strings.TrimSpace(knowledge) != "" {
		fmt.Fprintf(&b, "**Status:** ✅ Knowledge found\n\n**Findings:**\n%s\n\n", knowledge)
	} else {
		b.WriteString("**Status:** ❌ No relevant knowledge found\n\n")
		b.WriteString("**Impact:** Limited historical context available for this specific issue.\n\n")
	}

	b.WriteString("---\n\n## 🔧 Technical Investigation Results\n\n")
	if strings.TrimSpace(execution) != "" {
		fmt.Fprintf(&b, "**Status:** ✅ Technical data retrieved\n\n**Results:**\n%s\n\n", execution)
	} else {
		b.WriteString("**Status:** ❌ No technical data available\n\n")
		b.WriteString("**Impact:** Unable to perform detailed technical analysis of campaign execution.\n\n")
	}

	fmt.Fprintf(&b, "---\n\n%s\n\n", analysis.Render())
	fmt.Fprintf(&b, "---\n\n%s\n\n", plan.Render())

	b.WriteString("---\n\n## 📞 Next Steps\n\n")
	b.WriteString("If this analysis doesn't fully resolve your issue:\n\n")
	b.WriteString("1. **Provide Additional Context:** Share specific error messages, campaign IDs, or screenshots\n")
	b.WriteString("2. **Check Recent Changes:** Review any recent configuration changes to your WhatsApp setup\n")
	b.WriteString("3. **Monitor Status:** Keep an eye on WhatsApp Business API status and your account health\n")
	b.WriteString("4. **Contact Support:** If the issue persists, contact MoEngage support with this analysis\n\n")
	b.WriteString("---\n\n")
	b.WriteString("*This analysis was generated by the MoEngage WhatsApp Support Agent using multi-agent investigation.*\n")

	return b.String()
}

func containsAny(text string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
