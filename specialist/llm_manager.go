package specialist

import (
	"github.com/satyamsundaram01/moe-support-assist/agent"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"github.com/satyamsundaram01/moe-support-assist/planner"
	"github.com/satyamsundaram01/moe-support-assist/route"
	"github.com/satyamsundaram01/moe-support-assist/tool"
)

// NewLLMManager builds the model-driven root variant. Where ChatManager
// decides routing with the rule classifier, this root lets the model pick:
// the specialists are sub-agents reachable through the transfer tool, and
// the knowledge specialist is additionally wrapped as a callable tool so
// the model can gather context before it routes.
//
// The knowledge argument is the agent to wrap as a tool; it may also appear
// in specialists so it stays transfer-addressable.
func NewLLMManager(llm model.Model, knowledge core.Agent, specialists ...core.Agent) (*agent.LLMAgent, error) {
	m := agent.NewLLMAgent(route.SupportChatManager, llm, func(o *agent.LLMAgentOptions) {
		o.Description = "MoEngage Support Assistant - Expert customer support agent with specialized tools"
		o.Instruction = agent.NewInstructionFromText(llmManagerInstruction)
		o.Planner = planner.NewReActPlanner()
	})
	m.RegisterTool(tool.NewAgentTool(knowledge))

	if err := m.SetSubAgents(specialists...); err != nil {
		return nil, err
	}

	return m, nil
}
