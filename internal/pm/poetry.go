package pm

var poetryValueFlags = []string{"E", "extras"}

type poetry struct {
	base
}

func (m poetry) Install(args []string) (ExecRequest, error) {
	if hasUnknownArgs(args, poetryValueFlags) {
		return m.exec(prepend("add", args)...), nil
	}
	return m.exec(prepend("install", args)...), nil
}

func (m poetry) Uninstall(args []string) (ExecRequest, error) {
	return m.exec(prepend("remove", args)...), nil
}

func (m poetry) Update(args []string) (ExecRequest, error) {
	return m.exec(prepend("update", args)...), nil
}

func (m poetry) Run(args []string) (ExecRequest, error) {
	return m.exec(prepend("run", args)...), nil
}
