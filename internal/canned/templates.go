package canned

// Default returns the bank used by the portfolio chat widget.
func Default() *Bank {
	return &Bank{
		BusinessContext: businessContext,
		KeywordGroups: []KeywordGroup{
			{Name: "career", Keywords: []string{"job", "career", "work"}, Template: careerAdvice},
			{Name: "projects", Keywords: []string{"project", "idea", "build"}, Template: projectIdeas},
			{Name: "networking", Keywords: []string{"network", "community", "connect"}, Template: networkingGuide},
			{Name: "founders", Keywords: []string{"founder", "startup", "business"}, Template: founderAdvice},
		},
		Generic:   genericHelp,
		Fallbacks: []Template{fallbackSuggestions, fallbackCapabilities, fallbackInsights},
		OpenAI:    []Template{openAICapabilities, openAISuggestions},
		Anthropic: []Template{anthropicInsights, anthropicCapabilities},
	}
}

const businessContext Template = `💡 **Web3 Context**: Based on your message about "{message}", here are some additional suggestions:

🔍 **For Web3 Opportunities**: Check out recent hackathons on Devpost and ETHGlobal
🤝 **Networking**: Join Discord communities like Ethereum, Polygon, and Starknet
💼 **Career**: Consider contributing to open-source Web3 projects on GitHub`

const careerAdvice Template = `🤖 **AI Career Advice**: Based on your message about "{message}", here are some career opportunities:

💼 **Web3 Job Platforms**:
• CryptoJobsList.com
• Web3.careers
• AngelList (Web3 companies)
• LinkedIn (filter by Web3)

🎯 **Hot Skills**:
• Solidity smart contracts
• React/Next.js frontend
• DeFi protocols
• Cross-chain development

💡 **Next Steps**:
1. Build a portfolio (like this one!)
2. Contribute to open source
3. Join Web3 communities
4. Attend hackathons`

const projectIdeas Template = `🤖 **AI Project Ideas**: Based on your message about "{message}", here are some innovative project ideas:

🚀 **DeFi Projects**:
• Cross-chain DEX aggregator
• Yield farming optimizer
• NFT lending platform
• DAO governance tools

🎨 **NFT Projects**:
• Dynamic NFT marketplace
• Generative art platform
• NFT staking protocol
• Social NFT platform

💡 **Infrastructure**:
• Layer 2 bridge
• Multi-chain wallet
• DeFi analytics dashboard
• Web3 social platform`

const networkingGuide Template = `🤖 **AI Networking Guide**: Based on your message about "{message}", here are networking opportunities:

🤝 **Web3 Communities**:
• Ethereum Discord
• Polygon Discord
• Starknet Discord
• Solana Discord
• Web3 Builders Discord

📅 **Events**:
• ETHGlobal hackathons
• Devcon
• Consensus
• NFT NYC
• Web3 Summit

💡 **Online Platforms**:
• Twitter (follow Web3 builders)
• Discord (join DAOs)
• Telegram (crypto groups)
• GitHub (contribute to projects)`

const founderAdvice Template = `🤖 **AI Founder Advice**: Based on your message about "{message}", here's guidance for Web3 founders:

🎯 **Founder Journey**:
• Start with a clear problem
• Build MVP quickly
• Get community feedback
• Iterate based on usage
• Focus on product-market fit

💰 **Funding Options**:
• DAO grants (Gitcoin, Moloch)
• Accelerators (Y Combinator, TechStars)
• Angel investors
• Token sales (if applicable)

💡 **Success Factors**:
• Strong technical team
• Clear tokenomics
• Community building
• Regulatory compliance
• Security audits`

const genericHelp Template = `🤖 **AI Response**: Thank you for your message about "{message}"! I'm here to help with your Web3 journey.

💡 **How I can assist you**:
• 🚀 **Project Ideas**: Brainstorm innovative Web3 concepts
• 💼 **Career Growth**: Find job opportunities and skill development
• 🤝 **Networking**: Connect with Web3 communities and events
• 💡 **Innovation**: Explore cutting-edge blockchain technologies

**What specific area would you like to explore?**`

const fallbackSuggestions Template = `I'm using HuggingFace's open-source models to help you! Based on your message: "{message}", here are some suggestions:

🔍 **For Web3 Opportunities**: Check out recent hackathons on Devpost and ETHGlobal
🤝 **Networking**: Join Discord communities like Ethereum, Polygon, and Starknet
💼 **Career**: Consider contributing to open-source Web3 projects on GitHub

Would you like me to help you find specific opportunities?`

const fallbackCapabilities Template = `Thanks for reaching out! I'm powered by HuggingFace to assist with your Web3 journey. Here's what I can help with:

🚀 **Project Ideas**: Let's brainstorm innovative DeFi or NFT concepts
💼 **Job Search**: I can help identify companies hiring Web3 developers
🤝 **Collaboration**: Find potential co-founders or team members

What specific area would you like to explore?`

const fallbackInsights Template = `Hello! I'm here to support your Web3 ambitions using HuggingFace models. Based on your query, here are some strategic insights:

📈 **Market Analysis**: Current trends in DeFi, NFTs, and Layer 2 solutions
🎯 **Skill Development**: Recommended learning paths for Web3 founders
🌐 **Ecosystem Mapping**: Key players and opportunities in the space

How can I help you move forward?`

const openAICapabilities Template = `Thanks for reaching out! I'm powered by OpenAI to assist with your Web3 journey. Here's what I can help with:

🚀 **Project Ideas**: Let's brainstorm innovative DeFi or NFT concepts
💼 **Job Search**: I can help identify companies hiring Web3 developers
🤝 **Collaboration**: Find potential co-founders or team members

What specific area would you like to explore?`

const openAISuggestions Template = `I'm using OpenAI's advanced models to help you! Based on your message: "{message}", here are some suggestions:

🔍 **For Web3 Opportunities**: Check out recent hackathons on Devpost and ETHGlobal
🤝 **Networking**: Join Discord communities like Ethereum, Polygon, and Starknet
💼 **Career**: Consider contributing to open-source Web3 projects on GitHub

Would you like me to help you find specific opportunities?`

const anthropicInsights Template = `Hello! I'm Claude, here to support your Web3 ambitions. Based on your query, here are some strategic insights:

📈 **Market Analysis**: Current trends in DeFi, NFTs, and Layer 2 solutions
🎯 **Skill Development**: Recommended learning paths for Web3 founders
🌐 **Ecosystem Mapping**: Key players and opportunities in the space

How can I help you move forward?`

const anthropicCapabilities Template = `I'm Claude, powered by Anthropic to assist with your Web3 journey. Here's what I can help with:

🚀 **Project Ideas**: Let's brainstorm innovative DeFi or NFT concepts
💼 **Job Search**: I can help identify companies hiring Web3 developers
🤝 **Collaboration**: Find potential co-founders or team members

What specific area would you like to explore?`
