package catalog

// Menu keys. Row ids are the wire contract with the list renderer and the
// routing engine; renaming one requires updating the catalog as a whole.
const (
	MenuMain         = "MENU_PRINCIPAL"
	MenuEstetica     = "MENU_ESTETICA"
	MenuTecnologias  = "MENU_TECNOLOGIAS"
	MenuCapilar      = "MENU_CAPILAR"
	MenuLongevidade  = "MENU_LONGEVIDADE"
	defaultButton    = "Abrir"
	defaultListBody  = "Selecione uma opção:"
	clinicHeader     = "Clínica Juliana Hortense"
	mainMenuFooter   = "Novidade: Longevidade e Emagrecimento com o Dr. João."
	backRowTitle     = "Voltar ao menu"
	backRowDescTitle = "Reabrir o menu principal"
)

// Default returns the clinic's menu tree. Content is static data; the
// routing engine only ever sees the ids.
func Default() (*Catalog, error) {
	menus := []MenuNode{
		{
			Key:    MenuMain,
			Header: clinicHeader,
			Body:   defaultListBody,
			Footer: mainMenuFooter,
			Button: defaultButton,
			Rows: []Row{
				{ID: MenuEstetica, Title: "Estética", Description: "Procedimentos faciais e corporais"},
				{ID: MenuTecnologias, Title: "Tecnologias", Description: "Equipamentos da clínica"},
				{ID: MenuCapilar, Title: "Capilar", Description: "Tratamentos para cabelo"},
				{ID: MenuLongevidade, Title: "Longevidade", Description: "Emagrecimento e saúde com o Dr. João"},
				{ID: string(ControlSchedule), Title: "Agendar avaliação", Description: "Fale com nossa equipe"},
				{ID: string(ControlHandoff), Title: "Falar com atendente", Description: "Atendimento humano"},
			},
		},
		{
			Key:    MenuEstetica,
			Header: "Estética",
			Body:   defaultListBody,
			Button: defaultButton,
			Rows: []Row{
				{ID: "EST_BOTOX", Title: "Toxina botulínica", Description: "Suavização de rugas"},
				{ID: "EST_PREENCHIMENTO", Title: "Preenchimento", Description: "Ácido hialurônico"},
				{ID: "EST_BIOESTIMULADOR", Title: "Bioestimulador", Description: "Estímulo de colágeno"},
				{ID: "EST_PEELING", Title: "Peeling", Description: "Renovação da pele"},
				{ID: string(ControlSchedule), Title: "Agendar avaliação", Description: "Fale com nossa equipe"},
				{ID: string(ControlBackHome), Title: backRowTitle, Description: backRowDescTitle},
			},
		},
		{
			Key:    MenuTecnologias,
			Header: "Tecnologias",
			Body:   defaultListBody,
			Button: defaultButton,
			Rows: []Row{
				{ID: "TEC_FOTONA", Title: "Fotona 4D", Description: "Laser facial e corporal"},
				{ID: "TEC_ULTRAFORMER", Title: "Ultraformer III", Description: "Ultrassom microfocado"},
				{ID: "TEC_LAVIEEN", Title: "Lavieen", Description: "Laser de thulium"},
				{ID: string(ControlBackHome), Title: backRowTitle, Description: backRowDescTitle},
			},
		},
		{
			Key:    MenuCapilar,
			Header: "Capilar",
			Body:   defaultListBody,
			Button: defaultButton,
			Rows: []Row{
				{ID: "CAP_MMP", Title: "MMP Capilar", Description: "Microinfusão de medicamentos"},
				{ID: "CAP_INTRADERMO", Title: "Intradermoterapia", Description: "Fortalecimento dos fios"},
				{ID: string(ControlBackHome), Title: backRowTitle, Description: backRowDescTitle},
			},
		},
		{
			Key:    MenuLongevidade,
			Header: "Longevidade",
			Body:   defaultListBody,
			Button: defaultButton,
			Rows: []Row{
				{ID: "LON_EMAGRECIMENTO", Title: "Emagrecimento", Description: "Acompanhamento com o Dr. João"},
				{ID: "LON_REPOSICAO", Title: "Reposição hormonal", Description: "Avaliação individualizada"},
				{ID: string(ControlSchedule), Title: "Agendar avaliação", Description: "Fale com nossa equipe"},
				{ID: string(ControlBackHome), Title: backRowTitle, Description: backRowDescTitle},
			},
		},
	}

	details := []DetailEntry{
		{
			Key:      "EST_BOTOX",
			BackMenu: MenuEstetica,
			Body: "💉 *Toxina botulínica*\n\nSuaviza rugas dinâmicas da testa, glabela e ao redor dos olhos. " +
				"Resultado natural, com retorno às atividades no mesmo dia.",
		},
		{
			Key:      "EST_PREENCHIMENTO",
			BackMenu: MenuEstetica,
			Body: "✨ *Preenchimento com ácido hialurônico*\n\nReposição de volume e contorno para lábios, " +
				"olheiras e mandíbula, sempre com avaliação médica prévia.",
		},
		{
			Key:      "EST_BIOESTIMULADOR",
			BackMenu: MenuEstetica,
			Body: "🌿 *Bioestimulador de colágeno*\n\nEstimula a produção natural de colágeno, melhorando " +
				"firmeza e qualidade da pele ao longo dos meses.",
		},
		{
			Key:      "EST_PEELING",
			BackMenu: MenuEstetica,
			Body: "🧴 *Peeling químico*\n\nRenovação da pele para manchas, acne e textura. Protocolos " +
				"personalizados conforme o seu tipo de pele.",
		},
		{
			Key:      "TEC_FOTONA",
			BackMenu: MenuTecnologias,
			Body: "⚡ *Fotona 4D*\n\nLaser de alta potência para rejuvenescimento facial em 4 dimensões, " +
				"sem cortes e sem tempo de recuperação. Também usado em protocolos corporais e íntimos.",
		},
		{
			Key:      "TEC_ULTRAFORMER",
			BackMenu: MenuTecnologias,
			Body: "🔊 *Ultraformer III*\n\nUltrassom microfocado para lifting sem cirurgia e definição de " +
				"contorno facial e corporal.",
		},
		{
			Key:      "TEC_LAVIEEN",
			BackMenu: MenuTecnologias,
			Body: "🌸 *Lavieen*\n\nLaser de thulium conhecido como \"BB Laser\": melhora poros, manchas e " +
				"viço da pele com mínimo desconforto.",
		},
		{
			Key:      "CAP_MMP",
			BackMenu: MenuCapilar,
			Body: "💆 *MMP Capilar*\n\nMicroinfusão de medicamentos no couro cabeludo para queda de cabelo " +
				"e estímulo do crescimento dos fios.",
		},
		{
			Key:      "CAP_INTRADERMO",
			BackMenu: MenuCapilar,
			Body: "💧 *Intradermoterapia capilar*\n\nAplicação de ativos diretamente no couro cabeludo para " +
				"fortalecer os fios e reduzir a queda.",
		},
		{
			Key:      "LON_EMAGRECIMENTO",
			BackMenu: MenuLongevidade,
			Body: "🏃 *Emagrecimento*\n\nPrograma de emagrecimento com acompanhamento médico do Dr. João, " +
				"unindo medicação, nutrição e exames periódicos.",
		},
		{
			Key:      "LON_REPOSICAO",
			BackMenu: MenuLongevidade,
			Body: "🧬 *Reposição hormonal*\n\nAvaliação completa de saúde hormonal e protocolos " +
				"individualizados de longevidade.",
		},
	}

	return New(MenuMain, menus, details)
}

// MustDefault is Default for wiring paths where the embedded content is
// known valid; it panics on a catalog construction error.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
