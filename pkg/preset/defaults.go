package preset

// defaultCatalog returns the built-in preset library seeded on first run.
func defaultCatalog() *Catalog {
	return &Catalog{
		Version: 1,
		Genres: []Genre{
			{
				Name: "EDM",
				Presets: []Preset{
					{Name: "House – Club", Tags: "club house, 128 bpm, four-on-the-floor kick, offbeat open hi-hat, rolling bassline, sidechain compression, bright supersaw, riser, snare build, drop, festival energy, wide stereo"},
					{Name: "Tech House", Tags: "tech house, 128 bpm, punchy kick and snare, groovy bass, syncopated percussion, shaker loop, minimal vocals, tension build, big drop, club mix"},
					{Name: "Melodic Techno", Tags: "melodic techno, 126 bpm, driving kick, hypnotic arp, dark atmosphere, long buildup, impact hit, drop, cinematic pads"},
					{Name: "Big Room", Tags: "big room, 130 bpm, huge kick, snare roll buildup, white noise riser, supersaw lead, massive drop, festival"},
					{Name: "Drum & Bass – Dancefloor", Tags: "drum and bass, 174 bpm, fast breakbeat, punchy kick and snare, rolling sub bass, reese bass, high energy, tension build, riser, impact hit, big drop, energetic synth stabs, atmospheric pad, DJ friendly, loop-based, minimal vocal chops"},
					{Name: "Drum & Bass – Neurofunk", Tags: "neurofunk, drum and bass, 172 bpm, tight snare, aggressive reese bass, growl bass, syncopated drums, gritty texture, dark atmosphere, industrial sound design, long buildup, snare roll, heavy drop, bass variation, minimal vocals, club mix, hard hitting"},
					{Name: "Drum & Bass – Liquid", Tags: "liquid drum and bass, 170 bpm, crisp breakbeat, warm sub bass, airy pads, emotional chords, clean mix, gentle riser, smooth drop, melodic lead, spacious reverb, minimal vocals, DJ friendly intro and outro"},
					{Name: "Techno – Driving Warehouse", Tags: "techno, 130 bpm, four-on-the-floor kick, rumbling bass, rolling percussion, offbeat hi-hat, hypnotic loop, dark warehouse, minimal vocals, repetitive groove, long buildup, tension, impact hit, drop, DJ friendly"},
					{Name: "Techno – Peak Time", Tags: "peak time techno, 132 bpm, powerful kick, driving bassline, big synth stab, build-up with snare roll, white noise riser, huge drop, energetic percussion, club mix, loop-based, crowd energy"},
					{Name: "Techno – Melodic", Tags: "melodic techno, 126 bpm, driving kick, arpeggiated synth, deep bass, cinematic pad, gradual buildup, impact hit, drop, wide stereo, minimal vocal chops, DJ friendly"},
					{Name: "Hard Techno – Rave", Tags: "hard techno, 150 bpm, hard four-on-the-floor kick, distorted rumble bass, aggressive percussion, rave stabs, intense energy, fast hats, build-up, snare roll, white noise riser, brutal drop, warehouse rave, relentless"},
					{Name: "Hard Techno – Industrial", Tags: "industrial hard techno, 145 bpm, heavy distorted kick, metallic percussion, dark atmosphere, gritty texture, pounding groove, relentless drive, tension build, impact hit, drop, harsh synth, underground"},
					{Name: "Hard Techno – Hardgroove", Tags: "hardgroove techno, 145 bpm, hard kick, groovy tom percussion, syncopated loops, fast hats, tribal percussion, hypnotic repetition, long buildup, drop, rave energy, DJ friendly"},
				},
			},
			{
				Name: "Rock",
				Presets: []Preset{
					{Name: "Rock – Classic", Tags: "classic rock, 120 bpm, live drum kit, steady rock groove, crunchy rhythm guitars, melodic lead guitar, electric bass, verse chorus structure, big chorus, warm analog mix, arena feel"},
					{Name: "Rock – Hard Rock", Tags: "hard rock, 140 bpm, driving drums, punchy kick and snare, distorted power chords, palm-muted riffs, big chorus, guitar solo, gritty vocals, aggressive energy, modern rock mix, wide guitars"},
					{Name: "Rock – Metal", Tags: "heavy metal, 160 bpm, double kick, tight snare, fast riffs, palm-muted chugs, aggressive guitar tone, heavy bass, breakdown, solo section, intense vocals, raw power"},
				},
			},
			{
				Name: "Pop",
				Presets: []Preset{
					{Name: "Pop – Modern", Tags: "modern pop, 118 bpm, clean punchy drums, bright synths, catchy hook, verse chorus structure, big chorus, polished vocal production, radio-ready mix, uplifting mood, wide stereo"},
					{Name: "Pop – Synthpop", Tags: "synthpop, 112 bpm, retro drum machine, gated snare, warm analog synths, arpeggiator, catchy melody, dreamy chords, smooth vocals, nostalgic 80s vibe, clean mix"},
					{Name: "Pop – Dance Pop", Tags: "dance pop, 124 bpm, four-on-the-floor kick, offbeat open hat, bright chords, sidechain compression, vocal hook, pre-chorus build, drop-style chorus, club-friendly, glossy mix"},
				},
			},
			{
				Name: "R&B",
				Presets: []Preset{
					{Name: "R&B – Contemporary", Tags: "contemporary r&b, 92 bpm, smooth drums, deep sub bass, lush chords, soulful vocals, modern vocal layers, relaxed groove, intimate vibe, polished mix"},
					{Name: "R&B – Neo Soul", Tags: "neo soul, 85 bpm, swung groove, warm electric piano, jazzy chords, live bass feel, crisp snare, intimate vocals, laid-back pocket, organic texture, smooth mix"},
					{Name: "R&B – Trap Soul", Tags: "trap soul, 70 bpm, trap hats, 808 bass, minimal chords, airy pads, moody vibe, melodic vocals, emotional hook, sparse arrangement, late-night atmosphere"},
				},
			},
			{
				Name: "Rap",
				Presets: []Preset{
					{Name: "Rap – Boom Bap", Tags: "boom bap rap, 92 bpm, classic hip hop drums, punchy kick, snappy snare, sampled vibe, chopped loop, gritty texture, head-nod groove, rap-focused, raw mix"},
					{Name: "Rap – Trap", Tags: "trap rap, 140 bpm, rapid hi-hats, 808 bass, hard snare, dark synth melody, aggressive energy, hook section, beat switch, modern mix, rap-focused"},
					{Name: "Rap – Drill", Tags: "drill rap, 145 bpm, sliding 808, sharp snare, syncopated hi-hats, dark piano or bell melody, tense vibe, aggressive rhythm, rap-forward, hard mix"},
				},
			},
			{
				Name: "Ballad / Slow",
				Presets: []Preset{
					{Name: "Ballad – Piano", Tags: "piano ballad, 72 bpm, emotional piano chords, soft drums, gentle strings, intimate vocals, big chorus lift, gradual build, heartfelt mood, warm reverb"},
					{Name: "Ballad – Acoustic", Tags: "acoustic ballad, 78 bpm, acoustic guitar fingerpicking, soft percussion, warm bass, intimate vocal, emotional chorus, natural room sound, organic performance"},
					{Name: "Ballad – Cinematic", Tags: "cinematic ballad, 68 bpm, orchestral strings, piano, soft drums, emotional swells, dramatic build, big climax, film score feel, lush reverb"},
				},
			},
			{
				Name: "Instrumental",
				Presets: []Preset{
					{Name: "Instrumental – Ambient", Tags: "ambient instrumental, 70 bpm, evolving pads, soft textures, spacious reverb, slow movement, atmospheric drones, minimal percussion, calming mood, cinematic soundscape, no vocals"},
					{Name: "Instrumental – Lo-fi", Tags: "lofi instrumental, 82 bpm, dusty drums, vinyl crackle texture, jazzy chords, warm bass, relaxed groove, soft melody, chill mood, loop-based, no vocals"},
					{Name: "Instrumental – Orchestral", Tags: "orchestral instrumental, 90 bpm, strings brass woodwinds, cinematic percussion, emotional theme, dynamic build, heroic climax, film score style, wide stereo, no vocals"},
				},
			},
			{
				Name: "Reggae",
				Presets: []Preset{
					{Name: "Reggae – Roots", Tags: "roots reggae, 74 bpm, one drop rhythm, skank guitar on offbeat, warm bassline, live drums, relaxed groove, sunny vibe, soulful vocals, organic mix"},
					{Name: "Reggae – Dancehall", Tags: "dancehall, 96 bpm, modern drum pattern, heavy bass, syncopated rhythm, energetic vibe, catchy chant hook, club-ready, bright synth accents, punchy mix"},
					{Name: "Reggae – Dub", Tags: "dub reggae, 72 bpm, deep bass, sparse drums, skank guitar, heavy reverb and delay, echo effects, spacey atmosphere, minimalist groove, instrumental focus"},
				},
			},
			{Name: "Custom", Presets: []Preset{}},
		},
	}
}
