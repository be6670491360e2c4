package modules

import "boardkit/internal/domain"

// ModuleTodo is a checklist. It provides ContractTodoList: a summary of how
// many items exist and how many are done, plus the open item titles.
const ModuleTodo = "todo"

// ContractTodoList is the public payload contract for todo lists.
const ContractTodoList = "boardkit.todo.v1"

type TodoItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type TodoState struct {
	Title string     `json:"title"`
	Items []TodoItem `json:"items"`
}

// PublicTodoList is what a todo widget shares. Item text is included only for
// open items; everything else about the list stays private to the widget.
type PublicTodoList struct {
	Title string   `json:"title"`
	Done  int      `json:"done"`
	Total int      `json:"total"`
	Open  []string `json:"open"`
}

// ProjectTodo maps full todo state to its public payload.
func ProjectTodo(state TodoState) PublicTodoList {
	pub := PublicTodoList{Title: state.Title, Total: len(state.Items)}
	for _, item := range state.Items {
		if item.Done {
			pub.Done++
		} else {
			pub.Open = append(pub.Open, item.Text)
		}
	}
	return pub
}

func todoDefinition() moduleEntry {
	def := baseDefinition(ModuleTodo, "Todo List", 280, 320)
	jsonState(&def, func() TodoState {
		return TodoState{Title: "Todo"}
	})
	return moduleEntry{
		Definition: def,
		Contracts: []domain.DataContract{{
			ID:          ContractTodoList,
			Name:        "Todo List",
			Description: "Completion summary and open items of a todo list",
			Version:     "1.0.0",
			ProviderID:  ModuleTodo,
		}},
		Project: func(state any) any {
			s, ok := state.(TodoState)
			if !ok {
				return PublicTodoList{}
			}
			return ProjectTodo(s)
		},
	}
}
