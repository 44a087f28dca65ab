package archive

// Sample returns the built-in catalog. Each call builds a fresh value.
func Sample() *Catalog {
	return &Catalog{
		Meta: Meta{
			Title:       "Badman Evolution: Interactive Digital Archive",
			Version:     "2.0",
			LastUpdated: "2025-09-05",
			Status:      "Building",
			Progress:    65,
		},
		Phases: PhaseList{
			{
				ID:          "folklore",
				Name:        "Folklore Foundation",
				Period:      "1865-1920",
				Description: "Post-emancipation folk heroes emerge from oral tradition",
				Color:       "#39FF14",
				Entries: []Entry{
					{
						ID:       "stag-001",
						Title:    "Stagolee",
						Year:     1895,
						Type:     "folk-ballad",
						Modality: "folk_hero_outlaw",
						Summary:  "The original bad man of Black folklore, Stagolee represents the complete rejection of respectability politics through violent assertion of respect.",
						PrimarySources: []Source{
							{
								Type:   "recording",
								Title:  "Mississippi John Hurt - Stack O'Lee Blues",
								Year:   1928,
								URL:    "#",
								Rights: "Public Domain",
							},
						},
						Analysis: Analysis{
							PerformativeLiteracies: []string{"force-calculus", "respect-management"},
							MythologicalFunction:   "reactive-resistance",
							ScholarlyNotes:         "Roberts argues that Stagolee emerged as a direct response to post-Reconstruction violence.",
						},
						Citations: []int{1, 2},
					},
					{
						ID:             "railroad-bill-001",
						Title:          "Railroad Bill",
						Year:           1896,
						Type:           "folk-hero",
						Modality:       "folk_hero_outlaw",
						Summary:        "Morris Slater, known as Railroad Bill, became a Robin Hood figure robbing trains across Alabama.",
						PrimarySources: []Source{},
						Analysis: Analysis{
							PerformativeLiteracies: []string{"environmental-scanning", "strategic-irrationality"},
							MythologicalFunction:   "economic-resistance",
							ScholarlyNotes:         "Combines trickster elements with badman violence.",
						},
						Citations: []int{3},
					},
				},
			},
			{
				ID:          "detective",
				Name:        "Detective Phase",
				Period:      "1960-1975",
				Description: "Blaxploitation era detectives navigate urban landscapes",
				Color:       "#552583",
				Entries: []Entry{
					{
						ID:             "shaft-001",
						Title:          "John Shaft",
						Year:           1971,
						Type:           "film",
						Modality:       "detective",
						Summary:        "Private detective who straddles both Black and white worlds, maintaining autonomy through violence and sexuality.",
						PrimarySources: []Source{},
						Analysis: Analysis{
							PerformativeLiteracies: []string{"code-switching", "force-calculus"},
							MythologicalFunction:   "institutional-navigation",
							ScholarlyNotes:         "Shaft represents the badman's attempt to work within the system while maintaining outsider status.",
						},
						Citations: []int{4},
					},
				},
			},
			{
				ID:          "revolutionary",
				Name:        "Revolutionary Phase",
				Period:      "1965-1975",
				Description: "Black Power era militant heroes",
				Color:       "#FFD700",
				Entries:     []Entry{},
			},
			{
				ID:          "gangsta",
				Name:        "Gangsta Phase",
				Period:      "1985-2000",
				Description: "Hip-hop era street entrepreneurs",
				Color:       "#FF0000",
				Entries:     []Entry{},
			},
			{
				ID:          "superhero",
				Name:        "Superhero Phase",
				Period:      "2000-Present",
				Description: "Comic book and cinematic Black heroes",
				Color:       "#800080",
				Entries:     []Entry{},
			},
		},
		Citations: map[int]Citation{
			1: {
				Short: "Roberts, <em>From Trickster to Badman</em>, pp. 171-215",
				Full:  "Roberts, John W. <em>From Trickster to Badman: The Black Folk Hero in Slavery and Freedom</em>. Philadelphia: University of Pennsylvania Press, 1989. pp. 171-215.",
			},
			2: {
				Short: "Levine, <em>Black Culture and Black Consciousness</em>, pp. 407-420",
				Full:  "Levine, Lawrence W. <em>Black Culture and Black Consciousness: Afro-American Folk Thought from Slavery to Freedom</em>. Oxford: Oxford University Press, 1977. pp. 407-420.",
			},
		},
	}
}
