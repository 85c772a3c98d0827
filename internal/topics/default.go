package topics

import "watch/internal/domain"

// Default возвращает встроенный набор тем.
func Default() *Ruleset {
	return New(defaultTopics)
}

var defaultTopics = []domain.Topic{
	{
		ID:       "israel",
		Label:    "Israel & Jerusalem",
		Keywords: []string{"israel", "jerusalem", "gaza", "west bank", "idf", "hezbollah", "hamas", "iran"},
		Verses: []domain.Passage{
			{Ref: "Zechariah 12:2-3", Text: "Behold, I will make Jerusalem a cup of trembling... all the people of the earth be gathered together against it."},
			{Ref: "Luke 21:20", Text: "And when ye shall see Jerusalem compassed with armies, then know that the desolation thereof is nigh."},
		},
	},
	{
		ID:       "wars",
		Label:    "Wars & Rumours of Wars",
		Keywords: []string{"war", "invasion", "missile", "artillery", "offensive", "strike", "conflict", "troops", "border clash"},
		Verses: []domain.Passage{
			{Ref: "Matthew 24:6-7", Text: "And ye shall hear of wars and rumours of wars... For nation shall rise against nation..."},
		},
	},
	{
		ID:       "disasters",
		Label:    "Earthquakes & Disasters",
		Keywords: []string{"earthquake", "famine", "pestilence", "outbreak", "pandemic", "wildfire", "hurricane", "flooding", "volcano"},
		Verses: []domain.Passage{
			{Ref: "Matthew 24:7", Text: "...and there shall be famines, and pestilences, and earthquakes, in divers places."},
		},
	},
	{
		ID:       "persecution",
		Label:    "Persecution of Believers",
		Keywords: []string{"church attack", "christian", "pastor arrested", "blasphemy law", "religious persecution"},
		Verses: []domain.Passage{
			{Ref: "Matthew 24:9", Text: "Then shall they deliver you up to be afflicted, and shall kill you..."},
			{Ref: "Revelation 6:9", Text: "I saw under the altar the souls of them that were slain for the word of God..."},
		},
	},
	{
		ID:       "deception",
		Label:    "Deception & False Christs",
		Keywords: []string{"disinformation", "deepfake", "false christ", "propaganda", "messiah claimant", "cult leader"},
		Verses: []domain.Passage{
			{Ref: "Matthew 24:4-5", Text: "Take heed that no man deceive you. For many shall come in my name..."},
		},
	},
	{
		ID:       "tech_control",
		Label:    "Control Tech / Economy",
		Keywords: []string{"digital id", "central bank digital currency", "cbdc", "biometric", "surveillance", "cashless", "implant", "microchip", "mark"},
		Verses: []domain.Passage{
			{Ref: "Revelation 13:16-17", Text: "And he causeth all... to receive a mark... that no man might buy or sell, save he that had the mark..."},
		},
	},
	{
		ID:       "globalism",
		Label:    "Global Governance",
		Keywords: []string{"global treaty", "world health", "un resolution", "global tax", "international court", "one world"},
		Verses: []domain.Passage{
			{Ref: "Daniel 7:23-25", Text: "...the fourth beast shall be the fourth kingdom upon earth... and shall devour the whole earth..."},
			{Ref: "Revelation 13:7", Text: "...power was given him over all kindreds, and tongues, and nations."},
		},
	},
}
