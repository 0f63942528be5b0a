package domain

// DefaultIdeaPrompt asks for one structured business idea.
// %[1]s is the category label.
const DefaultIdeaPrompt = `Generate a comprehensive and innovative business idea for the '%[1]s' category.

Please format your response with the following structure using markdown (use * for bold, not #):

*🚀 Business Idea: [Creative Business Name]*

*💡 Core Concept*
[Brief, compelling description of the business idea]

*🎯 Target Market*
[Define the target audience and market size]

*💰 Revenue Model*
[Explain how the business will make money]

*🔥 Unique Value Proposition*
[What makes this business special and competitive]

*📈 Market Opportunity*
[Market trends and opportunities]

*🛠️ Getting Started*
[3-4 practical steps to launch this business]

*💵 Estimated Startup Investment*
[Rough estimate of initial investment needed]

*⚡ Success Factors*
[Key factors for success in this business]

Ensure the idea is:
- Innovative and relevant to current market trends
- Practical and achievable
- Specific to the %[1]s sector
- Formatted with proper markdown for Telegram.`

// DefaultIdeaSystemPrompt is the system instruction sent with every idea request.
const DefaultIdeaSystemPrompt = `You are an experienced startup advisor who writes concise, practical business ideas.
Answer with the requested structure only, without preamble.`
